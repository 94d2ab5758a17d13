package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Pushkaraj-Palli/Discord-Clone/internal/search"
)

type SearchHandlers struct {
	service *search.SearchService
}

func NewSearchHandlers(db *gorm.DB) *SearchHandlers {
	return &SearchHandlers{
		service: search.NewSearchService(db),
	}
}

// SearchMessagesHandler searches a channel's messages
// @Summary Search messages in a channel
// @Description Case-insensitive content search, newest first (members only)
// @Tags Messages
// @Produce json
// @Security CookieAuth
// @Param id path string true "Server ID"
// @Param channelId path string true "Channel ID"
// @Param q query string true "Search query"
// @Param limit query int false "Number of messages to return (default: 50, max: 50)"
// @Success 200 {object} gin.H "Matching messages"
// @Failure 403 {object} ErrorResponse "You are not a member of this server"
// @Failure 404 {object} ErrorResponse "Server or channel not found"
// @Router /api/servers/{id}/channels/{channelId}/messages/search [get]
func (h *SearchHandlers) SearchMessagesHandler(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = search.SearchLimit
	}

	messages, total, err := h.service.SearchMessages(userID.(string), c.Param("id"), c.Param("channelId"), c.Query("q"), limit)
	if err != nil {
		c.JSON(messageErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	var list []MessageInfo
	for i := range messages {
		list = append(list, messageInfo(&messages[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": list,
		"total":    total,
	})
}
