package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chirpnet/chirp/internal/feed"
)

// errorBody is the JSON shape of every error response
type errorBody struct {
	Error string `json:"error"`
}

// respondError maps service errors onto HTTP statuses. Unclassified
// errors are reported as 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, feed.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, feed.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, errorBody{Error: "not authorized"})
	case errors.Is(err, feed.ErrSelfFollow):
		c.JSON(http.StatusConflict, errorBody{Error: "cannot follow yourself"})
	case errors.Is(err, feed.ErrEmptyPost):
		c.JSON(http.StatusBadRequest, errorBody{Error: "post has no content"})
	case errors.Is(err, feed.ErrInvalidRepost):
		c.JSON(http.StatusBadRequest, errorBody{Error: "repost cannot carry content, an image or other references"})
	default:
		c.JSON(http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorBody{Error: message})
}
