package chat

import (
	"encoding/json"
	"time"
)

// Event types accepted from clients.
const (
	EventJoinChannel = "joinChannel"
	EventSendMessage = "sendMessage"
)

// Event types emitted to clients.
const (
	EventMessage          = "message"
	EventUserStatusUpdate = "userStatusUpdate"
	EventErrorMessage     = "errorMessage"
)

// Event is the envelope for every frame exchanged over a chat
// connection. Data holds the type-specific payload.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent wraps a payload in an Event envelope.
func NewEvent(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Data: data}, nil
}

type JoinChannelPayload struct {
	ServerID  string `json:"serverId"`
	ChannelID string `json:"channelId"`
}

type SendMessagePayload struct {
	ServerID  string `json:"serverId"`
	ChannelID string `json:"channelId"`
	Content   string `json:"content"`
}

type SenderInfo struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

type MessagePayload struct {
	ID        string     `json:"id"`
	ServerID  string     `json:"serverId"`
	ChannelID string     `json:"channelId"`
	Content   string     `json:"content"`
	Sender    SenderInfo `json:"sender"`
	CreatedAt time.Time  `json:"createdAt"`
}

type StatusUpdatePayload struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

// MessageEvent builds the broadcast event for a persisted message with
// its sender display fields attached.
func MessageEvent(m *Message) (Event, error) {
	return NewEvent(EventMessage, MessagePayload{
		ID:        m.ID,
		ServerID:  m.ServerID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		Sender: SenderInfo{
			ID:        m.Sender.ID,
			Username:  m.Sender.Username,
			AvatarURL: m.Sender.AvatarURL,
		},
		CreatedAt: m.CreatedAt,
	})
}

// StatusUpdateEvent builds the process-wide presence change event.
func StatusUpdateEvent(userID, status string) (Event, error) {
	return NewEvent(EventUserStatusUpdate, StatusUpdatePayload{UserID: userID, Status: status})
}

// ErrorEvent builds the error signal sent back to a single connection.
func ErrorEvent(message string) Event {
	data, _ := json.Marshal(message)
	return Event{Type: EventErrorMessage, Data: data}
}
