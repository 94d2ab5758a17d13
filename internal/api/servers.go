package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	srv "github.com/Pushkaraj-Palli/Discord-Clone/internal/server"
	"github.com/Pushkaraj-Palli/Discord-Clone/pkg/chat"
)

type ServerHandlers struct {
	service *srv.ServerService
}

func NewServerHandlers(db *gorm.DB) *ServerHandlers {
	return &ServerHandlers{
		service: srv.NewServerService(db),
	}
}

type CreateServerRequest struct {
	Name string `json:"name" binding:"required"`
	Icon string `json:"icon"`
}

type AddChannelRequest struct {
	Name  string `json:"name" binding:"required"`
	Topic string `json:"topic"`
	Type  string `json:"type" binding:"required"`
}

type InviteRequest struct {
	Email string `json:"email" binding:"required"`
}

func serverJSON(server *chat.Server) gin.H {
	var members []gin.H
	for _, m := range server.Members {
		members = append(members, gin.H{
			"id":        m.ID,
			"username":  m.Username,
			"avatarUrl": m.AvatarURL,
			"status":    m.Status,
		})
	}

	var channels []gin.H
	for _, ch := range server.Channels {
		channels = append(channels, gin.H{
			"id":    ch.ID,
			"name":  ch.Name,
			"topic": ch.Topic,
			"type":  ch.Kind,
		})
	}

	return gin.H{
		"id":       server.ID,
		"name":     server.Name,
		"icon":     server.Icon,
		"ownerId":  server.OwnerID,
		"members":  members,
		"channels": channels,
	}
}

func (h *ServerHandlers) CreateServerHandler(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Server name is required"})
		return
	}

	server, err := h.service.CreateServer(userID.(string), req.Name, req.Icon)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"server": serverJSON(server)})
}

func (h *ServerHandlers) GetServersHandler(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	servers, err := h.service.GetUserServers(userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch servers"})
		return
	}

	var list []gin.H
	for i := range servers {
		list = append(list, serverJSON(&servers[i]))
	}

	c.JSON(http.StatusOK, gin.H{"servers": list})
}

func (h *ServerHandlers) GetServerHandler(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	server, err := h.service.FindServer(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Server not found"})
		return
	}

	if !server.IsMember(userID.(string)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this server"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"server": serverJSON(server)})
}

func (h *ServerHandlers) DeleteServerHandler(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.service.DeleteServer(userID.(string), c.Param("id")); err != nil {
		status := http.StatusBadRequest
		switch err.Error() {
		case "server not found":
			status = http.StatusNotFound
		case "only the server owner can delete the server":
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Server deleted"})
}

func (h *ServerHandlers) AddChannelHandler(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req AddChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Channel name and type are required"})
		return
	}

	channel, err := h.service.AddChannel(userID.(string), c.Param("id"), req.Name, req.Topic, req.Type)
	if err != nil {
		status := http.StatusBadRequest
		switch err.Error() {
		case "server not found":
			status = http.StatusNotFound
		case "only the server owner can add channels":
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"channel": gin.H{
			"id":    channel.ID,
			"name":  channel.Name,
			"topic": channel.Topic,
			"type":  channel.Kind,
		},
	})
}

func (h *ServerHandlers) InviteHandler(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	invitation, err := h.service.InviteByEmail(userID.(string), c.Param("id"), req.Email)
	if err != nil {
		status := http.StatusBadRequest
		switch err.Error() {
		case "server not found":
			status = http.StatusNotFound
		case "you are not a member of this server":
			status = http.StatusForbidden
		case "user is already a member of this server", "an invitation to this user already exists":
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invitation sent successfully",
		"invitation": gin.H{
			"id":       invitation.ID,
			"serverId": invitation.ServerID,
			"email":    invitation.Email,
			"status":   invitation.Status,
		},
	})
}
