package websocket

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/Pushkaraj-Palli/Discord-Clone/internal/message"
	"github.com/Pushkaraj-Palli/Discord-Clone/internal/presence"
	srv "github.com/Pushkaraj-Palli/Discord-Clone/internal/server"
	"github.com/Pushkaraj-Palli/Discord-Clone/internal/user"
	"github.com/Pushkaraj-Palli/Discord-Clone/pkg/chat"
)

// Gateway routes events between connected clients and the backing
// store. Send-path failures are reported back to the originating
// connection as errorMessage events and never close the connection;
// only authentication failures are fatal, and those are handled before
// the connection reaches the gateway.
type Gateway struct {
	hub      *Hub
	presence *presence.Tracker
	servers  *srv.ServerService
	messages *message.MessageService
	users    *user.UserService
}

func NewGateway(db *gorm.DB, hub *Hub, tracker *presence.Tracker) *Gateway {
	return &Gateway{
		hub:      hub,
		presence: tracker,
		servers:  srv.NewServerService(db),
		messages: message.NewMessageService(db),
		users:    user.NewUserService(db),
	}
}

// HandleConnect registers an authenticated connection. The first
// connection a user holds flips them online and announces it to every
// connected client; additional tabs or devices are silent.
func (g *Gateway) HandleConnect(client *Client) {
	g.hub.RegisterClient(client)

	if g.presence.AddConnection(client.userID, client.ID) {
		if err := g.users.SetStatus(client.userID, chat.StatusOnline); err != nil {
			log.Printf("set status online for %s: %v", client.userID, err)
		}
		g.broadcastStatus(client.userID, chat.StatusOnline)
	}

	log.Printf("user %s (%s) connected, conn %s", client.username, client.userID, client.ID)
}

// HandleDisconnect removes a closed connection. Only the last
// connection for the user flips them offline and broadcasts it.
func (g *Gateway) HandleDisconnect(client *Client) {
	g.hub.UnregisterClient(client)

	if g.presence.RemoveConnection(client.userID, client.ID) {
		if err := g.users.SetStatus(client.userID, chat.StatusOffline); err != nil {
			log.Printf("set status offline for %s: %v", client.userID, err)
		}
		g.broadcastStatus(client.userID, chat.StatusOffline)
	}

	log.Printf("user %s (%s) disconnected, conn %s", client.username, client.userID, client.ID)
}

// HandleEvent dispatches one inbound frame. Payload shapes are fixed
// per event type; anything malformed or unknown is rejected back to
// the sender instead of being trusted.
func (g *Gateway) HandleEvent(client *Client, data []byte) {
	var event chat.Event
	if err := json.Unmarshal(data, &event); err != nil {
		g.sendError(client, "Malformed event.")
		return
	}

	switch event.Type {
	case chat.EventJoinChannel:
		var payload chat.JoinChannelPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil || payload.ChannelID == "" {
			g.sendError(client, "Malformed event payload.")
			return
		}
		g.handleJoinChannel(client, payload)

	case chat.EventSendMessage:
		var payload chat.SendMessagePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			g.sendError(client, "Malformed event payload.")
			return
		}
		g.handleSendMessage(client, payload)

	default:
		g.sendError(client, "Unknown event type.")
	}
}

// handleJoinChannel subscribes the connection to the channel's room.
// No membership check happens here; joining only wires up delivery,
// and sendMessage enforces membership on every write.
func (g *Gateway) handleJoinChannel(client *Client, payload chat.JoinChannelPayload) {
	log.Printf("user %s joining channel %s on server %s", client.username, payload.ChannelID, payload.ServerID)
	g.hub.JoinRoom(client, payload.ChannelID)
}

func (g *Gateway) handleSendMessage(client *Client, payload chat.SendMessagePayload) {
	if strings.TrimSpace(payload.Content) == "" {
		g.sendError(client, "Message content cannot be empty.")
		return
	}
	if utf8.RuneCountInString(payload.Content) > chat.MaxMessageLength {
		g.sendError(client, "Message content too long.")
		return
	}

	server, err := g.servers.FindServer(payload.ServerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			g.sendError(client, "Server not found.")
		} else {
			log.Printf("find server %s: %v", payload.ServerID, err)
			g.sendError(client, "Failed to send message.")
		}
		return
	}

	if !server.IsMember(client.userID) {
		g.sendError(client, "You are not a member of this server.")
		return
	}

	if !server.HasTextChannel(payload.ChannelID) {
		g.sendError(client, "Channel not found in this server.")
		return
	}

	// Persist before fan-out: a broadcast message is always durable,
	// and per-connection order follows persistence order.
	msg, err := g.messages.Append(client.userID, payload.ServerID, payload.ChannelID, payload.Content)
	if err != nil {
		log.Printf("persist message from %s: %v", client.userID, err)
		g.sendError(client, "Failed to send message.")
		return
	}

	event, err := chat.MessageEvent(msg)
	if err != nil {
		g.sendError(client, "Failed to send message.")
		return
	}

	g.hub.BroadcastToRoom(payload.ChannelID, event)
	log.Printf("message %s sent to channel %s by %s", msg.ID, payload.ChannelID, client.username)
}

func (g *Gateway) broadcastStatus(userID, status string) {
	event, err := chat.StatusUpdateEvent(userID, status)
	if err != nil {
		log.Printf("status event for %s: %v", userID, err)
		return
	}
	g.hub.BroadcastToAll(event)
}

func (g *Gateway) sendError(client *Client, message string) {
	client.Send(chat.ErrorEvent(message))
}
