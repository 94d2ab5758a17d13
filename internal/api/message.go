package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	m "github.com/Pushkaraj-Palli/Discord-Clone/internal/message"
	"github.com/Pushkaraj-Palli/Discord-Clone/pkg/chat"
)

type MessageHandlers struct {
	service *m.MessageService
}

func NewMessageHandlers(db *gorm.DB) *MessageHandlers {
	return &MessageHandlers{
		service: m.NewMessageService(db),
	}
}

type MessageInfo struct {
	ID        string `json:"id"`
	ServerID  string `json:"serverId"`
	ChannelID string `json:"channelId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	Sender    struct {
		ID        string `json:"id"`
		Username  string `json:"username"`
		AvatarURL string `json:"avatarUrl"`
	} `json:"sender"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func messageInfo(msg *chat.Message) MessageInfo {
	info := MessageInfo{
		ID:        msg.ID,
		ServerID:  msg.ServerID,
		ChannelID: msg.ChannelID,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	info.Sender.ID = msg.Sender.ID
	info.Sender.Username = msg.Sender.Username
	info.Sender.AvatarURL = msg.Sender.AvatarURL
	return info
}

func messageErrorStatus(err error) int {
	switch err.Error() {
	case "server not found", "channel not found in this server":
		return http.StatusNotFound
	case "you are not a member of this server":
		return http.StatusForbidden
	case "message content cannot be empty", "message content too long", "search query is required":
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// GetChannelMessagesHandler retrieves message history for a channel
// @Summary Get channel message history
// @Description Get chronological message history for a channel (members only)
// @Tags Messages
// @Produce json
// @Security CookieAuth
// @Param id path string true "Server ID"
// @Param channelId path string true "Channel ID"
// @Param limit query int false "Number of messages to retrieve (default: 100, max: 100)"
// @Success 200 {object} gin.H "Messages retrieved successfully"
// @Failure 403 {object} ErrorResponse "You are not a member of this server"
// @Failure 404 {object} ErrorResponse "Server or channel not found"
// @Router /api/servers/{id}/channels/{channelId}/messages [get]
func (h *MessageHandlers) GetChannelMessagesHandler(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		limit = m.HistoryLimit
	}

	messages, err := h.service.GetChannelMessages(userID.(string), c.Param("id"), c.Param("channelId"), limit)
	if err != nil {
		c.JSON(messageErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	var list []MessageInfo
	for i := range messages {
		list = append(list, messageInfo(&messages[i]))
	}

	c.JSON(http.StatusOK, gin.H{"messages": list})
}

// SendMessageHandler is the HTTP fallback write path. It validates and
// persists like the gateway but performs no room broadcast, so live
// connections only see these messages on their next history fetch.
// @Summary Send a message over plain HTTP
// @Tags Messages
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "Server ID"
// @Param channelId path string true "Channel ID"
// @Param request body SendMessageRequest true "Message content"
// @Success 201 {object} MessageInfo "Message persisted"
// @Failure 403 {object} ErrorResponse "You are not a member of this server"
// @Failure 404 {object} ErrorResponse "Server or channel not found"
// @Router /api/servers/{id}/channels/{channelId}/messages [post]
func (h *MessageHandlers) SendMessageHandler(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is required"})
		return
	}

	msg, err := h.service.CreateMessage(userID.(string), c.Param("id"), c.Param("channelId"), req.Content)
	if err != nil {
		c.JSON(messageErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": messageInfo(msg)})
}
