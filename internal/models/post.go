package models

import (
	"database/sql"
	"time"
)

// PostKind identifies which variant a post row represents
type PostKind int16

const (
	PostKindOriginal PostKind = iota
	PostKindReply
	PostKindRepost
	PostKindQuote
)

// Post represents a post, reply, pure repost or quote. The variant is
// resolved from which reference column is populated; at most one of
// parent_id / repost_id is meaningful per row, quote_id may combine
// with own content.
//
// repost_id is only ever populated on pure reposts, so the unique pair
// index on (author_id, repost_id) backs the share toggle: at most one
// live share per author and target. NULL repost_id rows never collide.
type Post struct {
	ID        int64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AuthorID  int64          `gorm:"not null;index;uniqueIndex:idx_posts_author_repost;column:author_id" json:"authorId"`
	Content   sql.NullString `gorm:"type:text;column:content" json:"-"`
	Image     sql.NullString `gorm:"type:varchar(512);column:image" json:"-"`
	ParentID  sql.NullInt64  `gorm:"index;column:parent_id" json:"-"`
	RepostID  sql.NullInt64  `gorm:"index;uniqueIndex:idx_posts_author_repost;column:repost_id" json:"-"`
	QuoteID   sql.NullInt64  `gorm:"index;column:quote_id" json:"-"`
	CreatedAt time.Time      `gorm:"not null;index;column:created_at" json:"createdAt"`

	// Relationships
	Author  *User  `gorm:"foreignKey:AuthorID;references:ID" json:"-"`
	Parent  *Post  `gorm:"foreignKey:ParentID;references:ID" json:"-"`
	Repost  *Post  `gorm:"foreignKey:RepostID;references:ID" json:"-"`
	Quote   *Post  `gorm:"foreignKey:QuoteID;references:ID" json:"-"`
	Replies []Post `gorm:"foreignKey:ParentID;references:ID" json:"-"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// Kind resolves the post variant. Priority mirrors the notification
// derivation order: reply, then pure repost, then quote.
func (p *Post) Kind() PostKind {
	switch {
	case p.ParentID.Valid:
		return PostKindReply
	case p.IsPureRepost():
		return PostKindRepost
	case p.QuoteID.Valid:
		return PostKindQuote
	default:
		return PostKindOriginal
	}
}

// IsPureRepost reports whether the row is a toggleable share: repost_id
// set with no content, image, quote or parent of its own.
func (p *Post) IsPureRepost() bool {
	return p.RepostID.Valid && !p.Content.Valid && !p.Image.Valid &&
		!p.QuoteID.Valid && !p.ParentID.Valid
}

// String returns the kind name
func (k PostKind) String() string {
	names := map[PostKind]string{
		PostKindOriginal: "original",
		PostKindReply:    "reply",
		PostKindRepost:   "repost",
		PostKindQuote:    "quote",
	}
	if name, ok := names[k]; ok {
		return name
	}
	return "unknown"
}

// PostCounts holds the derived interaction counts for a post. Counts are
// computed on read and never stored on the row.
type PostCounts struct {
	Likes   int64 `json:"likes"`
	Replies int64 `json:"replies"`
	Reposts int64 `json:"reposts"`
	Quotes  int64 `json:"quotes"`
}

// PostStatus holds the viewer-relative interaction flags. A flag is a
// 3-way fact (viewer x post x relation) orthogonal to the post row, so
// it is recomputed on every read and never cached.
type PostStatus struct {
	IsLikedByMe    bool `json:"isLikedByMe"`
	IsRepostedByMe bool `json:"isRepostedByMe"`
	IsQuotedByMe   bool `json:"isQuotedByMe"`
}
