package feed

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chirpnet/chirp/internal/db"
	"github.com/chirpnet/chirp/internal/models"
)

// recordingBroadcaster captures pushes for assertions
type recordingBroadcaster struct {
	mu     sync.Mutex
	pushes map[int64][][]byte
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{pushes: make(map[int64][][]byte)}
}

func (b *recordingBroadcaster) BroadcastToUser(userID int64, message []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pushes[userID] = append(b.pushes[userID], message)
}

func (b *recordingBroadcaster) count(userID int64) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pushes[userID])
}

func newTestService(t *testing.T) (*Service, *recordingBroadcaster) {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	broadcaster := newRecordingBroadcaster()
	service := NewService(db.NewRepository(database), nil, nil, broadcaster)
	return service, broadcaster
}

func createUser(t *testing.T, s *Service, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Name:     username,
	}
	if err := db.NewUserRepository(s.repo).Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func createPost(t *testing.T, s *Service, authorID int64, content string) *PostView {
	t.Helper()
	result, err := s.CreatePost(context.Background(), CreatePostInput{
		AuthorID: authorID,
		Content:  &content,
	})
	if err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return result.Post
}

func createReply(t *testing.T, s *Service, authorID, parentID int64, content string) *PostView {
	t.Helper()
	result, err := s.CreatePost(context.Background(), CreatePostInput{
		AuthorID: authorID,
		Content:  &content,
		ParentID: &parentID,
	})
	if err != nil {
		t.Fatalf("failed to create reply: %v", err)
	}
	return result.Post
}

func createQuote(t *testing.T, s *Service, authorID, quoteID int64, content string) *PostView {
	t.Helper()
	result, err := s.CreatePost(context.Background(), CreatePostInput{
		AuthorID: authorID,
		Content:  &content,
		QuoteID:  &quoteID,
	})
	if err != nil {
		t.Fatalf("failed to create quote: %v", err)
	}
	return result.Post
}

func createRepost(t *testing.T, s *Service, authorID, repostID int64) *CreatePostResult {
	t.Helper()
	result, err := s.CreatePost(context.Background(), CreatePostInput{
		AuthorID: authorID,
		RepostID: &repostID,
	})
	if err != nil {
		t.Fatalf("failed to toggle repost: %v", err)
	}
	return result
}

func seedPosts(t *testing.T, s *Service, authorID int64, n int) []*PostView {
	t.Helper()
	posts := make([]*PostView, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, createPost(t, s, authorID, fmt.Sprintf("post %d", i)))
	}
	return posts
}
