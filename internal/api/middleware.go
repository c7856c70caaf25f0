package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chirpnet/chirp/pkg/token"
)

const viewerKey = "viewer_id"

// bearerToken extracts the token from the Authorization header, falling
// back to the token query parameter for websocket upgrades where
// browsers cannot set headers.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// OptionalAuth resolves the viewer when credentials are present and
// passes anonymous requests through. An invalid token is still rejected
// so a client never silently loses its identity.
func OptionalAuth(engine *token.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.Next()
			return
		}
		userID, err := engine.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "invalid token"})
			return
		}
		c.Set(viewerKey, userID)
		c.Next()
	}
}

// RequireAuth rejects requests without a valid token
func RequireAuth(engine *token.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "authentication required"})
			return
		}
		userID, err := engine.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "invalid token"})
			return
		}
		c.Set(viewerKey, userID)
		c.Next()
	}
}

// viewerID returns the authenticated user id, or nil for anonymous
// requests
func viewerID(c *gin.Context) *int64 {
	value, ok := c.Get(viewerKey)
	if !ok {
		return nil
	}
	id := value.(int64)
	return &id
}

// mustViewerID returns the authenticated user id behind RequireAuth
func mustViewerID(c *gin.Context) int64 {
	return c.GetInt64(viewerKey)
}
