package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chirpnet/chirp/internal/feed"
)

// createPostRequest is the body of POST /posts. At most one of
// parent_id, repost_id and quote_id is meaningful per request shape;
// content may be empty only for pure reposts.
type createPostRequest struct {
	Content  *string `json:"content"`
	Image    *string `json:"image"`
	ParentID *int64  `json:"parentId"`
	RepostID *int64  `json:"repostId"`
	QuoteID  *int64  `json:"quoteId"`
}

func (r *Router) listFeed(c *gin.Context) {
	cursor, ok := queryCursor(c, "cursor")
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	page, err := r.feed.Feed(c.Request.Context(), viewerID(c), cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (r *Router) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := r.feed.CreatePost(c.Request.Context(), feed.CreatePostInput{
		AuthorID: mustViewerID(c),
		Content:  req.Content,
		Image:    req.Image,
		ParentID: req.ParentID,
		RepostID: req.RepostID,
		QuoteID:  req.QuoteID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Deleted {
		// Repost toggle undid an existing share
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (r *Router) getPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	thread, err := r.feed.GetThread(c.Request.Context(), id, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

func (r *Router) listReplies(c *gin.Context) {
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

	page, err := r.feed.Replies(c.Request.Context(), id, viewerID(c), cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (r *Router) toggleLike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	liked, err := r.feed.ToggleLike(c.Request.Context(), id, mustViewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func (r *Router) deletePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := r.feed.DeletePost(c.Request.Context(), id, mustViewerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
