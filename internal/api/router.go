package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chirpnet/chirp/internal/feed"
	"github.com/chirpnet/chirp/internal/realtime"
	"github.com/chirpnet/chirp/pkg/logging"
	"github.com/chirpnet/chirp/pkg/token"
)

// Router sets up API routes
type Router struct {
	feed   *feed.Service
	hub    *realtime.Hub
	tokens *token.Engine
	logger *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(feedService *feed.Service, hub *realtime.Hub, tokens *token.Engine) *Router {
	return &Router{
		feed:   feedService,
		hub:    hub,
		tokens: tokens,
		logger: logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	optional := OptionalAuth(r.tokens)
	required := RequireAuth(r.tokens)

	posts := engine.Group("/posts")
	{
		posts.GET("", optional, r.listFeed)
		posts.POST("", required, r.createPost)
		posts.GET("/:id", optional, r.getPost)
		posts.GET("/:id/replies", optional, r.listReplies)
		posts.POST("/:id/like", required, r.toggleLike)
		posts.DELETE("/:id", required, r.deletePost)
	}

	users := engine.Group("/users")
	{
		users.GET("/:id", optional, r.getProfile)
		users.GET("/:id/posts", optional, r.listUserPosts)
		users.GET("/:id/replies", optional, r.listUserReplies)
		users.GET("/:id/likes", optional, r.listUserLikes)
		users.POST("/:id/follow", required, r.toggleFollow)
	}

	notifications := engine.Group("/notifications", required)
	{
		notifications.GET("", r.listNotifications)
		notifications.GET("/unread", r.unreadNotifications)
		notifications.POST("/read", r.markNotificationsRead)
	}

	engine.GET("/search", optional, r.search)
	engine.POST("/upload", required, r.uploadImage)
	engine.GET("/ws", required, r.serveWS)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "chirp-api",
	})
}
