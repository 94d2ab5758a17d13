package websocket

import (
	"encoding/json"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/Pushkaraj-Palli/Discord-Clone/pkg/chat"
)

func newTestClient(hub *Hub, userID, username string) *Client {
	return NewClient(hub, nil, &websocket.Conn{}, &chat.User{ID: userID, Username: username})
}

// recvEvent pops one queued frame off the client's send buffer.
func recvEvent(t *testing.T, client *Client) (chat.Event, bool) {
	t.Helper()
	select {
	case payload := <-client.send:
		var event chat.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			t.Fatalf("Failed to decode queued event: %v", err)
		}
		return event, true
	default:
		return chat.Event{}, false
	}
}

func drainEvents(t *testing.T, client *Client) []chat.Event {
	t.Helper()
	var events []chat.Event
	for {
		event, ok := recvEvent(t, client)
		if !ok {
			return events
		}
		events = append(events, event)
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "user1", "alice")

	hub.RegisterClient(client)
	assert.Equal(t, 1, hub.ClientCount())

	hub.UnregisterClient(client)
	assert.Equal(t, 0, hub.ClientCount())

	// Unregistering twice is harmless.
	hub.UnregisterClient(client)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_JoinRoomIdempotent(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "user1", "alice")
	hub.RegisterClient(client)

	hub.JoinRoom(client, "channel1")
	hub.JoinRoom(client, "channel1")

	assert.True(t, hub.IsInRoom(client, "channel1"))
	assert.Equal(t, 1, hub.RoomClientCount("channel1"))

	// A double join must not produce duplicate deliveries.
	event, err := chat.NewEvent(chat.EventMessage, chat.MessagePayload{ID: "msg1", ChannelID: "channel1"})
	assert.NoError(t, err)
	hub.BroadcastToRoom("channel1", event)

	assert.Len(t, drainEvents(t, client), 1)
}

func TestHub_BroadcastToRoom(t *testing.T) {
	hub := NewHub()
	client1 := newTestClient(hub, "user1", "alice")
	client2 := newTestClient(hub, "user2", "bob")
	client3 := newTestClient(hub, "user3", "carol")

	hub.RegisterClient(client1)
	hub.RegisterClient(client2)
	hub.RegisterClient(client3)

	hub.JoinRoom(client1, "channel1")
	hub.JoinRoom(client2, "channel1")
	hub.JoinRoom(client3, "channel2")

	event, err := chat.NewEvent(chat.EventMessage, chat.MessagePayload{ID: "msg1", ChannelID: "channel1", Content: "hello"})
	assert.NoError(t, err)
	hub.BroadcastToRoom("channel1", event)

	// Both room members receive it, the sender included; the client in
	// another room receives nothing.
	got1, ok := recvEvent(t, client1)
	assert.True(t, ok)
	assert.Equal(t, chat.EventMessage, got1.Type)

	_, ok = recvEvent(t, client2)
	assert.True(t, ok)

	_, ok = recvEvent(t, client3)
	assert.False(t, ok)
}

func TestHub_BroadcastToAll(t *testing.T) {
	hub := NewHub()
	client1 := newTestClient(hub, "user1", "alice")
	client2 := newTestClient(hub, "user2", "bob")

	hub.RegisterClient(client1)
	hub.RegisterClient(client2)
	hub.JoinRoom(client1, "channel1")

	event, err := chat.StatusUpdateEvent("user1", chat.StatusOnline)
	assert.NoError(t, err)
	hub.BroadcastToAll(event)

	// Presence updates reach every connection regardless of rooms.
	_, ok := recvEvent(t, client1)
	assert.True(t, ok)
	_, ok = recvEvent(t, client2)
	assert.True(t, ok)
}

func TestHub_UnregisterLeavesRooms(t *testing.T) {
	hub := NewHub()
	client1 := newTestClient(hub, "user1", "alice")
	client2 := newTestClient(hub, "user2", "bob")

	hub.RegisterClient(client1)
	hub.RegisterClient(client2)
	hub.JoinRoom(client1, "channel1")
	hub.JoinRoom(client2, "channel1")

	hub.UnregisterClient(client1)
	assert.False(t, hub.IsInRoom(client1, "channel1"))
	assert.Equal(t, 1, hub.RoomClientCount("channel1"))

	event, err := chat.NewEvent(chat.EventMessage, chat.MessagePayload{ID: "msg1", ChannelID: "channel1"})
	assert.NoError(t, err)
	hub.BroadcastToRoom("channel1", event)

	assert.Empty(t, drainEvents(t, client1))
	assert.Len(t, drainEvents(t, client2), 1)
}

func TestHub_EmptyRoomBroadcastIsHarmless(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "user1", "alice")
	hub.RegisterClient(client)
	hub.JoinRoom(client, "channel1")
	hub.LeaveRoom(client, "channel1")

	event, err := chat.NewEvent(chat.EventMessage, chat.MessagePayload{ID: "msg1"})
	assert.NoError(t, err)
	hub.BroadcastToRoom("channel1", event)

	assert.Empty(t, drainEvents(t, client))
	assert.Equal(t, 0, hub.RoomClientCount("channel1"))
}
