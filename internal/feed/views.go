package feed

import (
	"time"

	"github.com/chirpnet/chirp/internal/models"
)

// UserSummary is the compact user rendering embedded in posts and
// notifications
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
}

// NewUserSummary builds a summary from a user row
func NewUserSummary(user *models.User) *UserSummary {
	if user == nil {
		return nil
	}
	return &UserSummary{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Avatar:   user.Avatar,
	}
}

// PostView is the annotatable post shape returned by every read path.
// Repost and Quote nest the same shape, so viewer flags project onto
// arbitrary nesting with one recursive walk.
type PostView struct {
	ID        int64        `json:"id"`
	Kind      string       `json:"kind"`
	Author    *UserSummary `json:"author"`
	Content   *string      `json:"content"`
	Image     *string      `json:"image"`
	ParentID  *int64       `json:"parentId,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`

	Counts models.PostCounts `json:"counts"`
	models.PostStatus

	Repost *PostView `json:"repost,omitempty"`
	Quote  *PostView `json:"quote,omitempty"`
}

// UserProfile is the full profile rendering
type UserProfile struct {
	UserSummary
	Bio            string    `json:"bio"`
	CreatedAt      time.Time `json:"createdAt"`
	Posts          int64     `json:"posts"`
	Followers      int64     `json:"followers"`
	Following      int64     `json:"following"`
	IsFollowedByMe bool      `json:"isFollowedByMe"`
}

// NotificationView is the hydrated notification rendering, also used as
// the real-time push payload
type NotificationView struct {
	ID        int64        `json:"id"`
	Type      string       `json:"type"`
	Actor     *UserSummary `json:"actor"`
	Post      *PostView    `json:"post,omitempty"`
	Read      bool         `json:"read"`
	CreatedAt time.Time    `json:"createdAt"`
}

// PostPage is a cursor page of posts
type PostPage struct {
	Posts      []*PostView `json:"posts"`
	NextCursor *int64      `json:"nextCursor"`
	HasMore    bool        `json:"hasMore"`
}

// UserPage is a cursor page of users
type UserPage struct {
	Users      []*UserSummary `json:"users"`
	NextCursor *int64         `json:"nextCursor"`
	HasMore    bool           `json:"hasMore"`
}

// NotificationPage is a cursor page of notifications
type NotificationPage struct {
	Notifications []*NotificationView `json:"notifications"`
	NextCursor    *int64              `json:"nextCursor"`
	HasMore       bool                `json:"hasMore"`
}

// Thread is a post with its ancestor chain and first page of replies
type Thread struct {
	Post      *PostView   `json:"post"`
	Ancestors []*PostView `json:"ancestors"`
	Replies   *PostPage   `json:"replies"`
}

// SearchResults carries independently paginated user and post matches
type SearchResults struct {
	Users *UserPage `json:"users"`
	Posts *PostPage `json:"posts"`
}
