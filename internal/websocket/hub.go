// Package websocket implements the real-time gateway: connection
// lifecycle, channel room membership, and message fan-out.
package websocket

import (
	"log"
	"sync"

	"github.com/Pushkaraj-Palli/Discord-Clone/pkg/chat"
)

// Hub indexes live connections and their room subscriptions. Rooms are
// keyed by channel id and created lazily on first join; an empty room
// is left in place, its cost is one map entry.
type Hub struct {
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		rooms:   make(map[string]map[*Client]bool),
	}
}

func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
}

// UnregisterClient removes the client from the hub and from every room
// it joined.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.clients[client] {
		return
	}
	delete(h.clients, client)
	for _, room := range h.rooms {
		delete(room, client)
	}
}

// JoinRoom subscribes the client to a channel's room. Joining twice is
// a no-op.
func (h *Hub) JoinRoom(client *Client, channelID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[channelID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[channelID] = room
	}
	room[client] = true
}

func (h *Hub) LeaveRoom(client *Client, channelID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[channelID]; ok {
		delete(room, client)
	}
}

// BroadcastToRoom delivers an event to every connection currently
// subscribed to the channel's room, the sender included. Delivery is
// best-effort: a client whose send buffer is full is skipped.
func (h *Hub) BroadcastToRoom(channelID string, event chat.Event) {
	payload, err := marshalEvent(event)
	if err != nil {
		log.Printf("broadcast to room %s: %v", channelID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[channelID] {
		client.enqueue(payload)
	}
}

// BroadcastToAll delivers an event to every connected client,
// regardless of room membership. Used for presence updates.
func (h *Hub) BroadcastToAll(event chat.Event) {
	payload, err := marshalEvent(event)
	if err != nil {
		log.Printf("broadcast to all: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		client.enqueue(payload)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) RoomClientCount(channelID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[channelID])
}

func (h *Hub) IsInRoom(client *Client, channelID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[channelID][client]
}
