package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID parses a numeric path parameter
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryCursor parses an optional cursor query parameter
func queryCursor(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "invalid "+name)
		return nil, false
	}
	return &id, true
}

// queryLimit parses the optional limit query parameter; the service
// clamps the range
func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, "invalid limit")
		return 0, false
	}
	return limit, true
}
