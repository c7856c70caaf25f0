package models

import (
	"time"
)

// Like represents a like relationship. Existence of the pair is the only
// state; likes are created and deleted via toggles, never updated.
type Like struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_likes_user_post;column:user_id" json:"userId"`
	PostID    int64     `gorm:"not null;uniqueIndex:idx_likes_user_post;index;column:post_id" json:"postId"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"createdAt"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Post *Post `gorm:"foreignKey:PostID;references:ID" json:"-"`
}

// TableName specifies the table name for Like
func (Like) TableName() string {
	return "likes"
}
