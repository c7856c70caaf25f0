package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (r *Router) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		respondBadRequest(c, "missing query")
		return
	}

	usersCursor, ok := queryCursor(c, "usersCursor")
	if !ok {
		return
	}
	postsCursor, ok := queryCursor(c, "postsCursor")
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	results, err := r.feed.Search(c.Request.Context(), q, viewerID(c), usersCursor, postsCursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
