package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	u "github.com/Pushkaraj-Palli/Discord-Clone/internal/user"
)

type UserHandlers struct {
	service *u.UserService
}

func NewUserHandlers(db *gorm.DB) *UserHandlers {
	return &UserHandlers{
		service: u.NewUserService(db),
	}
}

func (h *UserHandlers) MeHandler(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.service.GetUser(userID.(string))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"username":  user.Username,
			"avatarUrl": user.AvatarURL,
			"status":    user.Status,
		},
	})
}

func (h *UserHandlers) UpdateUserHandler(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req u.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.UpdateUser(userID.(string), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"username":  user.Username,
			"avatarUrl": user.AvatarURL,
		},
	})
}

type StatusInput struct {
	Status string `json:"status" binding:"required" example:"idle"`
}

// UpdateStatusHandler lets a client set its persisted presence status
// directly, e.g. idle or dnd. Online/offline transitions normally come
// from the gateway as connections open and close.
func (h *UserHandlers) UpdateStatusHandler(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	if err := h.service.SetStatus(userID.(string), input.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
}

func (h *UserHandlers) ListInvitationsHandler(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	invitations, err := h.service.ListInvitations(userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitations"})
		return
	}

	var list []gin.H
	for _, inv := range invitations {
		list = append(list, gin.H{
			"id":       inv.ID,
			"serverId": inv.ServerID,
			"status":   inv.Status,
			"invitedBy": gin.H{
				"id":       inv.InvitedBy.ID,
				"username": inv.InvitedBy.Username,
			},
			"createdAt": inv.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"invitations": list})
}

type InviteDecisionInput struct {
	ServerID     string `json:"serverId" binding:"required"`
	InvitationID string `json:"invitationId" binding:"required"`
}

func (h *UserHandlers) AcceptInviteHandler(c *gin.Context) {
	h.settleInvite(c, h.service.AcceptInvite, "Invitation accepted successfully")
}

func (h *UserHandlers) DeclineInviteHandler(c *gin.Context) {
	h.settleInvite(c, h.service.DeclineInvite, "Invitation declined")
}

func (h *UserHandlers) settleInvite(c *gin.Context, settle func(userID, serverID, invitationID string) error, message string) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input InviteDecisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Server ID and Invitation ID are required"})
		return
	}

	if err := settle(userID.(string), input.ServerID, input.InvitationID); err != nil {
		status := http.StatusBadRequest
		if err.Error() == "invitation not found or already settled" || err.Error() == "server not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}
