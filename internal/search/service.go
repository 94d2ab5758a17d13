package search

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	srv "github.com/Pushkaraj-Palli/Discord-Clone/internal/server"
	"github.com/Pushkaraj-Palli/Discord-Clone/pkg/chat"
)

// SearchLimit caps how many messages a single search returns.
const SearchLimit = 50

type SearchService struct {
	db      *gorm.DB
	servers *srv.ServerService
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{
		db:      db,
		servers: srv.NewServerService(db),
	}
}

// SearchMessages finds messages in a channel whose content matches the
// query, newest first. Access follows the same rules as history: server
// members only, text channels only.
func (s *SearchService) SearchMessages(searcherID, serverID, channelID, query string, limit int) ([]chat.Message, int64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, errors.New("search query is required")
	}
	if limit <= 0 || limit > SearchLimit {
		limit = SearchLimit
	}

	server, err := s.servers.FindServer(serverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, errors.New("server not found")
		}
		return nil, 0, err
	}

	if !server.IsMember(searcherID) {
		return nil, 0, errors.New("you are not a member of this server")
	}

	if !server.HasTextChannel(channelID) {
		return nil, 0, errors.New("channel not found in this server")
	}

	// Clean query for SQL LIKE
	likeQuery := "%" + strings.ToLower(query) + "%"

	var total int64
	countQuery := s.db.Model(&chat.Message{}).
		Where("channel_id = ? AND LOWER(content) LIKE ?", channelID, likeQuery)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []chat.Message
	searchQuery := s.db.Preload("Sender").
		Where("channel_id = ? AND LOWER(content) LIKE ?", channelID, likeQuery).
		Order("created_at DESC").
		Limit(limit)

	if err := searchQuery.Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}
