package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (r *Router) listNotifications(c *gin.Context) {
	cursor, ok := queryCursor(c, "cursor")
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	page, err := r.feed.Notifications(c.Request.Context(), mustViewerID(c), cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (r *Router) unreadNotifications(c *gin.Context) {
	count, err := r.feed.UnreadNotifications(c.Request.Context(), mustViewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (r *Router) markNotificationsRead(c *gin.Context) {
	if err := r.feed.MarkNotificationsRead(c.Request.Context(), mustViewerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
