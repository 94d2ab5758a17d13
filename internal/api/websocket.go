package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Pushkaraj-Palli/Discord-Clone/internal/auth"
	"github.com/Pushkaraj-Palli/Discord-Clone/internal/user"
	ws "github.com/Pushkaraj-Palli/Discord-Clone/internal/websocket"
)

type WebSocketHandler struct {
	hub     *ws.Hub
	gateway *ws.Gateway
	users   *user.UserService
}

func NewWebSocketHandler(db *gorm.DB, hub *ws.Hub, gateway *ws.Gateway) *WebSocketHandler {
	return &WebSocketHandler{
		hub:     hub,
		gateway: gateway,
		users:   user.NewUserService(db),
	}
}

// HandleWebSocket authenticates the handshake and upgrades to a
// websocket connection. The credential rides on the upgrade request
// itself (the auth cookie, or a token query parameter for clients that
// cannot send cookies), never in a post-connect message, and a failed
// verification terminates the attempt before any upgrade happens.
//
// @Summary WebSocket connection endpoint
// @Description Upgrade HTTP connection to WebSocket for real-time chat
// @Tags websocket
// @Security CookieAuth
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /ws [get]
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	token, err := c.Cookie(auth.CookieName)
	if err != nil || token == "" {
		token = c.Query("token")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	userID, _, err := auth.Identity(claims)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	// The identity must still resolve to a real user record.
	connectedUser, err := h.users.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	conn, err := ws.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := ws.NewClient(h.hub, h.gateway, conn, connectedUser)
	h.gateway.HandleConnect(client)

	go client.WritePump()
	go client.ReadPump()
}

type WebSocketInfoResponse struct {
	TotalConnections int    `json:"total_connections"`
	ServerTime       string `json:"server_time"`
}

// GetConnectionInfo reports how many connections the gateway holds.
// @Summary Get WebSocket connection info
// @Tags websocket
// @Security CookieAuth
// @Produce json
// @Success 200 {object} WebSocketInfoResponse
// @Router /api/ws/info [get]
func (h *WebSocketHandler) GetConnectionInfo(c *gin.Context) {
	c.JSON(http.StatusOK, WebSocketInfoResponse{
		TotalConnections: h.hub.ClientCount(),
		ServerTime:       time.Now().Format(time.RFC3339),
	})
}
