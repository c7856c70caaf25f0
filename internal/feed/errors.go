package feed

import "errors"

// Business-rule errors surfaced verbatim to the API layer
var (
	// ErrNotFound indicates a referenced post or user does not exist
	ErrNotFound = errors.New("not found")

	// ErrNotAuthorized indicates the actor does not own the resource
	ErrNotAuthorized = errors.New("not authorized")

	// ErrSelfFollow indicates an attempt to follow oneself
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrEmptyPost indicates a post with no content, image or reference
	ErrEmptyPost = errors.New("post must have content, an image or a reference")

	// ErrInvalidRepost indicates a repost combined with content, an image
	// or other references; shares with commentary must use a quote instead
	ErrInvalidRepost = errors.New("repost cannot carry content, an image or other references")
)
