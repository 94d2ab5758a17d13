package client

import (
	"encoding/json"
	"log"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/Pushkaraj-Palli/Discord-Clone/pkg/chat"
)

type eventReceivedMsg chat.Event

type connClosedMsg struct {
	err error
}

type WSClient struct {
	conn *websocket.Conn
	ch   chan tea.Msg
}

// NewWSClient dials the gateway. The session token rides on the
// handshake query string since a terminal client has no cookie jar.
func NewWSClient(host, token string, ch chan tea.Msg) (*WSClient, error) {
	u := url.URL{
		Scheme:   "ws",
		Host:     host,
		Path:     "/ws",
		RawQuery: "token=" + url.QueryEscape(token),
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}

	return &WSClient{conn: conn, ch: ch}, nil
}

func (c *WSClient) Start() {
	go func() {
		for {
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				c.ch <- connClosedMsg{err: err}
				return
			}

			var event chat.Event
			if err := json.Unmarshal(data, &event); err != nil {
				log.Println("WS decode error:", err)
				continue
			}
			c.ch <- eventReceivedMsg(event)
		}
	}()
}

func (c *WSClient) send(event chat.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *WSClient) Join(serverID, channelID string) error {
	event, err := chat.NewEvent(chat.EventJoinChannel, chat.JoinChannelPayload{
		ServerID:  serverID,
		ChannelID: channelID,
	})
	if err != nil {
		return err
	}
	return c.send(event)
}

func (c *WSClient) SendMessage(serverID, channelID, content string) error {
	event, err := chat.NewEvent(chat.EventSendMessage, chat.SendMessagePayload{
		ServerID:  serverID,
		ChannelID: channelID,
		Content:   content,
	})
	if err != nil {
		return err
	}
	return c.send(event)
}

func (c *WSClient) Close() error {
	return c.conn.Close()
}
