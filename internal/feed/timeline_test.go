package feed

import (
	"context"
	"testing"

	"github.com/chirpnet/chirp/internal/models"
)

func TestFeedPagination(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")

	seedPosts(t, s, alice.ID, 45)

	seen := make(map[int64]bool)
	var cursor *int64
	pages := 0
	sizes := []int{}
	for {
		page, err := s.Feed(ctx, nil, cursor, 20)
		if err != nil {
			t.Fatalf("feed failed: %v", err)
		}
		sizes = append(sizes, len(page.Posts))
		for _, post := range page.Posts {
			if seen[post.ID] {
				t.Fatalf("post %d returned twice", post.ID)
			}
			seen[post.ID] = true
		}
		pages++
		if !page.HasMore {
			if page.NextCursor != nil {
				t.Errorf("final page must not carry a cursor")
			}
			break
		}
		if page.NextCursor == nil {
			t.Fatalf("hasMore without next cursor")
		}
		cursor = page.NextCursor
	}

	if pages != 3 {
		t.Errorf("expected 3 pages, got %d", pages)
	}
	if sizes[0] != 20 || sizes[1] != 20 || sizes[2] != 5 {
		t.Errorf("unexpected page sizes %v", sizes)
	}
	if len(seen) != 45 {
		t.Errorf("expected all 45 posts exactly once, got %d", len(seen))
	}
}

func TestFeedOrderAndLimitClamp(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")

	posts := seedPosts(t, s, alice.ID, 60)

	// Newest first
	page, err := s.Feed(ctx, nil, nil, 0)
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if len(page.Posts) != DefaultPageSize {
		t.Errorf("zero limit should default to %d, got %d", DefaultPageSize, len(page.Posts))
	}
	if page.Posts[0].ID != posts[len(posts)-1].ID {
		t.Errorf("feed should lead with the newest post")
	}

	// Oversized limits clamp
	page, err = s.Feed(ctx, nil, nil, 500)
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if len(page.Posts) != MaxPageSize {
		t.Errorf("limit should clamp to %d, got %d", MaxPageSize, len(page.Posts))
	}
}

func TestFeedExcludesReplies(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")

	root := createPost(t, s, alice.ID, "top level")
	createReply(t, s, alice.ID, root.ID, "a reply")

	page, err := s.Feed(ctx, nil, nil, 10)
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if len(page.Posts) != 1 {
		t.Fatalf("feed must exclude replies, got %d items", len(page.Posts))
	}
	if page.Posts[0].ID != root.ID {
		t.Errorf("expected only the top-level post")
	}
}

func TestMissingCursorYieldsEmptyPage(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	seedPosts(t, s, alice.ID, 3)

	missing := int64(9999)
	page, err := s.Feed(ctx, nil, &missing, 10)
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if len(page.Posts) != 0 || page.HasMore {
		t.Errorf("missing cursor row should yield an empty final page")
	}
}

func TestRepliesOrderedOldestFirst(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	root := createPost(t, s, alice.ID, "root")
	first := createReply(t, s, bob.ID, root.ID, "first")
	second := createReply(t, s, alice.ID, root.ID, "second")
	third := createReply(t, s, bob.ID, root.ID, "third")

	page, err := s.Replies(ctx, root.ID, nil, nil, 10)
	if err != nil {
		t.Fatalf("replies failed: %v", err)
	}
	want := []int64{first.ID, second.ID, third.ID}
	if len(page.Posts) != len(want) {
		t.Fatalf("expected %d replies, got %d", len(want), len(page.Posts))
	}
	for i, id := range want {
		if page.Posts[i].ID != id {
			t.Errorf("reply %d: expected id %d, got %d", i, id, page.Posts[i].ID)
		}
	}

	if _, err := s.Replies(ctx, 9999, nil, nil, 10); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing parent, got %v", err)
	}
}

func TestThreadAncestors(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")

	root := createPost(t, s, alice.ID, "depth 0")
	chain := []*PostView{root}
	for i := 1; i <= 5; i++ {
		chain = append(chain, createReply(t, s, alice.ID, chain[i-1].ID, "deeper"))
	}
	leaf := chain[len(chain)-1]

	thread, err := s.GetThread(ctx, leaf.ID, nil)
	if err != nil {
		t.Fatalf("thread failed: %v", err)
	}
	if thread.Post.ID != leaf.ID {
		t.Errorf("thread should center on the requested post")
	}
	if len(thread.Ancestors) != 5 {
		t.Fatalf("expected 5 ancestors, got %d", len(thread.Ancestors))
	}
	// Root first, immediate parent last
	if thread.Ancestors[0].ID != root.ID {
		t.Errorf("ancestors should start at the root")
	}
	if thread.Ancestors[4].ID != chain[4].ID {
		t.Errorf("ancestors should end at the immediate parent")
	}

	// A deleted intermediate ancestor truncates the walk without error
	if err := s.DeletePost(ctx, chain[2].ID, alice.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	// chain[3..5] died in the cascade; the surviving reply of chain[1]
	// still resolves with its remaining ancestors
	thread, err = s.GetThread(ctx, chain[1].ID, nil)
	if err != nil {
		t.Fatalf("thread after delete failed: %v", err)
	}
	if len(thread.Ancestors) != 1 || thread.Ancestors[0].ID != root.ID {
		t.Errorf("expected the root as sole ancestor")
	}

	// A dangling parent reference truncates the walk without error
	if err := s.repo.DB().Delete(&models.Post{}, root.ID).Error; err != nil {
		t.Fatalf("raw delete failed: %v", err)
	}
	thread, err = s.GetThread(ctx, chain[1].ID, nil)
	if err != nil {
		t.Fatalf("thread with dangling parent failed: %v", err)
	}
	if len(thread.Ancestors) != 0 {
		t.Errorf("dangling parent should truncate the ancestor walk")
	}

	if _, err := s.GetThread(ctx, 9999, nil); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProfileListingsAndCounts(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	post := createPost(t, s, alice.ID, "alice post")
	reply := createReply(t, s, alice.ID, post.ID, "alice reply")
	bobPost := createPost(t, s, bob.ID, "bob post")
	if _, err := s.ToggleLike(ctx, bobPost.ID, alice.ID); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if _, err := s.ToggleFollow(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("follow failed: %v", err)
	}

	posts, err := s.ProfilePosts(ctx, alice.ID, nil, nil, 10)
	if err != nil {
		t.Fatalf("profile posts failed: %v", err)
	}
	if len(posts.Posts) != 1 || posts.Posts[0].ID != post.ID {
		t.Errorf("profile posts should list only top-level posts")
	}

	replies, err := s.ProfileReplies(ctx, alice.ID, nil, nil, 10)
	if err != nil {
		t.Fatalf("profile replies failed: %v", err)
	}
	if len(replies.Posts) != 1 || replies.Posts[0].ID != reply.ID {
		t.Errorf("profile replies should list only replies")
	}

	likes, err := s.ProfileLikes(ctx, alice.ID, nil, nil, 10)
	if err != nil {
		t.Fatalf("profile likes failed: %v", err)
	}
	if len(likes.Posts) != 1 || likes.Posts[0].ID != bobPost.ID {
		t.Errorf("profile likes should list liked posts")
	}

	profile, err := s.GetProfile(ctx, alice.ID, &bob.ID)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if profile.Posts != 2 {
		t.Errorf("expected 2 authored posts, got %d", profile.Posts)
	}
	if profile.Followers != 1 {
		t.Errorf("expected 1 follower, got %d", profile.Followers)
	}
	if !profile.IsFollowedByMe {
		t.Errorf("bob follows alice, flag should be set")
	}

	// Anonymous viewers never see a follow flag
	profile, err = s.GetProfile(ctx, alice.ID, nil)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if profile.IsFollowedByMe {
		t.Errorf("anonymous profile must not claim a follow")
	}

	if _, err := s.GetProfile(ctx, 9999, nil); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	createPost(t, s, alice.ID, "gophers are great")
	createPost(t, s, bob.ID, "nothing to see")
	createPost(t, s, bob.ID, "GOPHERS unite")

	results, err := s.Search(ctx, "gopher", nil, nil, nil, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results.Posts.Posts) != 2 {
		t.Errorf("expected 2 matching posts, got %d", len(results.Posts.Posts))
	}
	if len(results.Users.Users) != 0 {
		t.Errorf("expected no matching users, got %d", len(results.Users.Users))
	}

	results, err = s.Search(ctx, "ALI", nil, nil, nil, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results.Users.Users) != 1 || results.Users.Users[0].Username != "alice" {
		t.Errorf("expected alice in user results")
	}
}
