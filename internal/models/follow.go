package models

import (
	"time"
)

// Follow represents a follow relationship
type Follow struct {
	FollowerID  int64     `gorm:"primaryKey;column:follower_id" json:"followerId"`
	FollowingID int64     `gorm:"primaryKey;column:following_id" json:"followingId"`
	CreatedAt   time.Time `gorm:"not null;column:created_at" json:"createdAt"`

	// Relationships
	Follower  *User `gorm:"foreignKey:FollowerID;references:ID" json:"-"`
	Following *User `gorm:"foreignKey:FollowingID;references:ID" json:"-"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}
