package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chirpnet/chirp/internal/feed"
)

// getProfile resolves numeric path segments as user ids and anything
// else as a username
func (r *Router) getProfile(c *gin.Context) {
	var profile *feed.UserProfile
	var err error

	raw := c.Param("id")
	if id, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
		profile, err = r.feed.GetProfile(c.Request.Context(), id, viewerID(c))
	} else {
		profile, err = r.feed.GetProfileByUsername(c.Request.Context(), raw, viewerID(c))
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// userPage handles the three per-user post listings, which differ only
// in the service call
func (r *Router) userPage(c *gin.Context, list func(id int64, viewer *int64, cursor *int64, limit int) (*feed.PostPage, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cursor, ok := queryCursor(c, "cursor")
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	page, err := list(id, viewerID(c), cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (r *Router) listUserPosts(c *gin.Context) {
	r.userPage(c, func(id int64, viewer *int64, cursor *int64, limit int) (*feed.PostPage, error) {
		return r.feed.ProfilePosts(c.Request.Context(), id, viewer, cursor, limit)
	})
}

func (r *Router) listUserReplies(c *gin.Context) {
	r.userPage(c, func(id int64, viewer *int64, cursor *int64, limit int) (*feed.PostPage, error) {
		return r.feed.ProfileReplies(c.Request.Context(), id, viewer, cursor, limit)
	})
}

func (r *Router) listUserLikes(c *gin.Context) {
	r.userPage(c, func(id int64, viewer *int64, cursor *int64, limit int) (*feed.PostPage, error) {
		return r.feed.ProfileLikes(c.Request.Context(), id, viewer, cursor, limit)
	})
}

func (r *Router) toggleFollow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	following, err := r.feed.ToggleFollow(c.Request.Context(), mustViewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}
