package models

import (
	"time"
)

// User represents a registered account
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Username  string    `gorm:"type:varchar(32);not null;uniqueIndex;column:username" json:"username"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex;column:email" json:"email"`
	Name      string    `gorm:"type:varchar(64);column:name" json:"name"`
	Avatar    string    `gorm:"type:varchar(512);column:avatar" json:"avatar"`
	Bio       string    `gorm:"type:text;column:bio" json:"bio"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"createdAt"`

	// Relationships
	Posts     []Post         `gorm:"foreignKey:AuthorID" json:"-"`
	Likes     []Like         `gorm:"foreignKey:UserID" json:"-"`
	Followers []Follow       `gorm:"foreignKey:FollowingID" json:"-"`
	Following []Follow       `gorm:"foreignKey:FollowerID" json:"-"`
	Notifs    []Notification `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
