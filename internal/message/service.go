package message

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	srv "github.com/Pushkaraj-Palli/Discord-Clone/internal/server"
	"github.com/Pushkaraj-Palli/Discord-Clone/pkg/chat"
)

// HistoryLimit caps how many messages a single history request returns.
const HistoryLimit = 100

type MessageService struct {
	db      *gorm.DB
	servers *srv.ServerService
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{
		db:      db,
		servers: srv.NewServerService(db),
	}
}

// Append durably stores a message and returns it with the sender's
// display fields loaded. Validation and authorization are the
// caller's responsibility; the gateway checks before calling.
func (s *MessageService) Append(senderID, serverID, channelID, content string) (*chat.Message, error) {
	message := chat.Message{
		SenderID:  senderID,
		ServerID:  serverID,
		ChannelID: channelID,
		Content:   content,
	}

	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("Sender").First(&message, "id = ?", message.ID).Error; err != nil {
		return nil, err
	}

	return &message, nil
}

// CreateMessage is the fully validated write path used by the HTTP
// fallback. It performs the same checks as the gateway's send path but
// does not broadcast: messages written here reach other clients only
// when they fetch history.
func (s *MessageService) CreateMessage(userID, serverID, channelID, content string) (*chat.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("message content cannot be empty")
	}
	if utf8.RuneCountInString(content) > chat.MaxMessageLength {
		return nil, errors.New("message content too long")
	}

	server, err := s.servers.FindServer(serverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("server not found")
		}
		return nil, err
	}

	if !server.IsMember(userID) {
		return nil, errors.New("you are not a member of this server")
	}

	if !server.HasTextChannel(channelID) {
		return nil, errors.New("channel not found in this server")
	}

	return s.Append(userID, serverID, channelID, content)
}

// GetChannelMessages returns a channel's history in chronological
// ascending order, capped at HistoryLimit, for server members only.
func (s *MessageService) GetChannelMessages(userID, serverID, channelID string, limit int) ([]chat.Message, error) {
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}

	server, err := s.servers.FindServer(serverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("server not found")
		}
		return nil, err
	}

	if !server.IsMember(userID) {
		return nil, errors.New("you are not a member of this server")
	}

	if !server.HasTextChannel(channelID) {
		return nil, errors.New("channel not found in this server")
	}

	var messages []chat.Message
	err = s.db.
		Preload("Sender").
		Where("server_id = ? AND channel_id = ?", serverID, channelID).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}
