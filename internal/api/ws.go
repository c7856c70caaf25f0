package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/chirpnet/chirp/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin clients are expected; token auth gates the endpoint
	CheckOrigin: func(*http.Request) bool { return true },
}

// serveWS upgrades the connection and binds it to the authenticated
// user's notification channel
func (r *Router) serveWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		r.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	realtime.NewClient(r.hub, conn, mustViewerID(c))
}
