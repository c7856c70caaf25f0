package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// uploadLimit bounds the request body read; the service enforces its
// own cap on the decoded bytes
const uploadLimit = 6 << 20

func (r *Router) uploadImage(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, uploadLimit))
	if err != nil || len(data) == 0 {
		respondBadRequest(c, "missing image body")
		return
	}

	url, err := r.feed.UploadImage(c.Request.Context(), data)
	if err != nil {
		// The image host is a remote collaborator; surface its failure
		// distinctly from our own
		c.JSON(http.StatusBadGateway, errorBody{Error: "image upload failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
