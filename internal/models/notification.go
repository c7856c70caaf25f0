package models

import (
	"database/sql"
	"time"
)

// Notification represents a notification
type Notification struct {
	ID        int64         `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Type      int16         `gorm:"type:smallint;not null;column:type" json:"-"`
	UserID    int64         `gorm:"not null;index;column:user_id" json:"userId"`
	ActorID   int64         `gorm:"not null;index;column:actor_id" json:"actorId"`
	PostID    sql.NullInt64 `gorm:"index;column:post_id" json:"-"`
	Read      bool          `gorm:"not null;default:false;index;column:read" json:"read"`
	CreatedAt time.Time     `gorm:"not null;index;column:created_at" json:"createdAt"`

	// Relationships
	User  *User `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Actor *User `gorm:"foreignKey:ActorID;references:ID" json:"-"`
	Post  *Post `gorm:"foreignKey:PostID;references:ID" json:"-"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifs"
}

// Notification type constants
const (
	NotifyTypeLike   int16 = 1
	NotifyTypeFollow int16 = 2
	NotifyTypeReply  int16 = 3
	NotifyTypeRepost int16 = 4
	NotifyTypeQuote  int16 = 5
)

// NotifyTypeName returns the wire name for a notification type
func NotifyTypeName(typeID int16) string {
	names := map[int16]string{
		NotifyTypeLike:   "like",
		NotifyTypeFollow: "follow",
		NotifyTypeReply:  "reply",
		NotifyTypeRepost: "repost",
		NotifyTypeQuote:  "quote",
	}
	if name, ok := names[typeID]; ok {
		return name
	}
	return "unknown"
}
