package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Pushkaraj-Palli/Discord-Clone/internal/presence"
	ws "github.com/Pushkaraj-Palli/Discord-Clone/internal/websocket"
)

// handshakeTimeout bounds how long an unauthenticated upgrade request
// may take before the connection is dropped.
const handshakeTimeout = 10 * time.Second

// Serve wires the hub, presence tracker, and HTTP routes together and
// listens on addr.
func Serve(db *gorm.DB, addr string) error {
	r := gin.Default()

	hub := ws.NewHub()
	tracker := presence.NewTracker()

	router := NewRouter(db, hub, tracker)
	router.RegisterRoutes(r)

	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: handshakeTimeout,
	}

	return server.ListenAndServe()
}
