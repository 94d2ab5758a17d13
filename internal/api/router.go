package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	a "github.com/Pushkaraj-Palli/Discord-Clone/internal/auth"
	mw "github.com/Pushkaraj-Palli/Discord-Clone/internal/middleware"
	"github.com/Pushkaraj-Palli/Discord-Clone/internal/presence"
	ws "github.com/Pushkaraj-Palli/Discord-Clone/internal/websocket"
)

type Router struct {
	ah *AuthHandlers
	uh *UserHandlers
	sh *ServerHandlers
	mh *MessageHandlers
	xh *SearchHandlers
	wh *WebSocketHandler
	am *a.AuthMiddleware
}

func NewRouter(db *gorm.DB, hub *ws.Hub, tracker *presence.Tracker) *Router {
	gateway := ws.NewGateway(db, hub, tracker)

	return &Router{
		ah: NewAuthHandlers(db),
		uh: NewUserHandlers(db),
		sh: NewServerHandlers(db),
		mh: NewMessageHandlers(db),
		xh: NewSearchHandlers(db),
		wh: NewWebSocketHandler(db, hub, gateway),
		am: a.NewAuthMiddleware(),
	}
}

func (r *Router) RegisterRoutes(router *gin.Engine) {
	authLimiter := mw.NewIPRateLimiter(mw.StrictRateLimit)

	{
		unprotected := router.Group("/")
		unprotected.GET("/hc", HealthCheckHandler)
		unprotected.POST("/register", mw.RateLimitMiddleware(authLimiter), r.ah.RegisterHandler)
		unprotected.POST("/login", mw.RateLimitMiddleware(authLimiter), r.ah.LoginHandler)
		unprotected.GET("/ws", r.wh.HandleWebSocket)
	}

	{
		protected := router.Group("/api")
		protected.Use(r.am.RequireAuth())
		protected.POST("/logout", r.ah.LogoutHandler)

		protected.GET("/user/me", r.uh.MeHandler)
		protected.PATCH("/user", r.uh.UpdateUserHandler)
		protected.POST("/user/status", r.uh.UpdateStatusHandler)
		protected.GET("/user/invitations", r.uh.ListInvitationsHandler)
		protected.POST("/user/accept-invite", r.uh.AcceptInviteHandler)
		protected.POST("/user/decline-invite", r.uh.DeclineInviteHandler)

		protected.POST("/servers", r.sh.CreateServerHandler)
		protected.GET("/servers", r.sh.GetServersHandler)
		protected.GET("/servers/:id", r.sh.GetServerHandler)
		protected.DELETE("/servers/:id", r.sh.DeleteServerHandler)
		protected.POST("/servers/:id/channels", r.sh.AddChannelHandler)
		protected.POST("/servers/:id/invite", r.sh.InviteHandler)

		protected.GET("/servers/:id/channels/:channelId/messages", r.mh.GetChannelMessagesHandler)
		protected.POST("/servers/:id/channels/:channelId/messages", r.mh.SendMessageHandler)
		protected.GET("/servers/:id/channels/:channelId/messages/search", r.xh.SearchMessagesHandler)

		protected.GET("/ws/info", r.wh.GetConnectionInfo)
	}
}

func HealthCheckHandler(c *gin.Context) {
	c.String(200, "Running")
}
