package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
	"github.com/gorilla/websocket"

	"github.com/Pushkaraj-Palli/Discord-Clone/pkg/chat"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size: 2000 characters of content plus the
	// event envelope, with room for multi-byte runes.
	maxMessageSize = 16 * 1024
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking for production
		return true
	},
}

// Client is one authenticated websocket connection. A user may hold
// several clients at once (multiple tabs or devices).
type Client struct {
	// ID is unique per physical connection, not per user.
	ID string

	conn    *websocket.Conn
	send    chan []byte
	hub     *Hub
	gateway *Gateway

	userID    string
	username  string
	avatarURL string
}

// NewClient wraps an upgraded connection for the given user.
func NewClient(hub *Hub, gateway *Gateway, conn *websocket.Conn, user *chat.User) *Client {
	id, _ := nanoid.New(12)
	return &Client{
		ID:        id,
		conn:      conn,
		send:      make(chan []byte, 256),
		hub:       hub,
		gateway:   gateway,
		userID:    user.ID,
		username:  user.Username,
		avatarURL: user.AvatarURL,
	}
}

func (c *Client) UserID() string {
	return c.userID
}

func (c *Client) Username() string {
	return c.username
}

// Send delivers a single event to this connection only.
func (c *Client) Send(event chat.Event) {
	payload, err := marshalEvent(event)
	if err != nil {
		log.Printf("send to client %s: %v", c.ID, err)
		return
	}
	c.enqueue(payload)
}

// enqueue hands a marshaled frame to the write pump without blocking.
// A slow consumer with a full buffer loses the frame; delivery is
// best-effort for connected clients only.
func (c *Client) enqueue(payload []byte) {
	select {
	case c.send <- payload:
	default:
		log.Printf("client %s send buffer full, dropping frame", c.ID)
	}
}

// ReadPump pumps inbound events from the connection to the gateway.
// It runs in its own goroutine, one per connection, which serializes
// this connection's events: a message is persisted and broadcast
// before the next one is read.
func (c *Client) ReadPump() {
	defer func() {
		c.gateway.HandleDisconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("client %s read error: %v", c.ID, err)
			}
			return
		}
		c.gateway.HandleEvent(c, data)
	}
}

// WritePump pumps outbound frames from the send channel to the
// connection and keeps it alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func marshalEvent(event chat.Event) ([]byte, error) {
	return json.Marshal(event)
}
