package models

import (
	"database/sql"
	"testing"
)

func ref(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: true}
}

func text(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestPostKind(t *testing.T) {
	tests := []struct {
		name     string
		post     Post
		expected PostKind
	}{
		{
			name:     "plain original",
			post:     Post{Content: text("hello")},
			expected: PostKindOriginal,
		},
		{
			name:     "reply",
			post:     Post{Content: text("hi"), ParentID: ref(1)},
			expected: PostKindReply,
		},
		{
			name:     "pure repost",
			post:     Post{RepostID: ref(1)},
			expected: PostKindRepost,
		},
		{
			name:     "quote",
			post:     Post{Content: text("look"), QuoteID: ref(1)},
			expected: PostKindQuote,
		},
		{
			name:     "reply wins over quote",
			post:     Post{Content: text("hm"), ParentID: ref(1), QuoteID: ref(2)},
			expected: PostKindReply,
		},
		{
			name:     "repost with a quote is not pure, resolves as quote",
			post:     Post{RepostID: ref(1), QuoteID: ref(2)},
			expected: PostKindQuote,
		},
		{
			name:     "repost with content is not pure",
			post:     Post{RepostID: ref(1), Content: text("x")},
			expected: PostKindOriginal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.post.Kind(); got != tt.expected {
				t.Errorf("Kind() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsPureRepost(t *testing.T) {
	tests := []struct {
		name     string
		post     Post
		expected bool
	}{
		{"share without content", Post{RepostID: ref(1)}, true},
		{"repost with content is not pure", Post{RepostID: ref(1), Content: text("x")}, false},
		{"repost with an image is not pure", Post{RepostID: ref(1), Image: text("img")}, false},
		{"quote is not a repost", Post{QuoteID: ref(1), Content: text("x")}, false},
		{"original is not a repost", Post{Content: text("x")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.post.IsPureRepost(); got != tt.expected {
				t.Errorf("IsPureRepost() = %v, want %v", got, tt.expected)
			}
		})
	}
}
