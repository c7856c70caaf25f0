package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
)

func TestNotificationListingAndPagination(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")

	post := createPost(t, s, alice.ID, "popular")
	for i := 0; i < 25; i++ {
		fan := createUser(t, s, fmt.Sprintf("fan%d", i))
		if _, err := s.ToggleLike(ctx, post.ID, fan.ID); err != nil {
			t.Fatalf("like failed: %v", err)
		}
	}

	page, err := s.Notifications(ctx, alice.ID, nil, 20)
	if err != nil {
		t.Fatalf("notifications failed: %v", err)
	}
	if len(page.Notifications) != 20 || !page.HasMore {
		t.Fatalf("expected a full first page, got %d hasMore=%v",
			len(page.Notifications), page.HasMore)
	}
	if page.Notifications[0].Type != "like" {
		t.Errorf("expected like notifications, got %s", page.Notifications[0].Type)
	}
	if page.Notifications[0].Actor == nil {
		t.Errorf("notification should carry its actor")
	}
	if page.Notifications[0].Post == nil || page.Notifications[0].Post.ID != post.ID {
		t.Errorf("notification should carry the liked post")
	}

	rest, err := s.Notifications(ctx, alice.ID, page.NextCursor, 20)
	if err != nil {
		t.Fatalf("notifications failed: %v", err)
	}
	if len(rest.Notifications) != 5 || rest.HasMore {
		t.Errorf("expected 5 remaining, got %d hasMore=%v",
			len(rest.Notifications), rest.HasMore)
	}

	// Other users see nothing
	bob := createUser(t, s, "bob")
	empty, err := s.Notifications(ctx, bob.ID, nil, 20)
	if err != nil {
		t.Fatalf("notifications failed: %v", err)
	}
	if len(empty.Notifications) != 0 {
		t.Errorf("bob should have no notifications")
	}
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	carol := createUser(t, s, "carol")

	post := createPost(t, s, alice.ID, "count me")
	if _, err := s.ToggleLike(ctx, post.ID, bob.ID); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if _, err := s.ToggleFollow(ctx, carol.ID, alice.ID); err != nil {
		t.Fatalf("follow failed: %v", err)
	}

	count, err := s.UnreadNotifications(ctx, alice.ID)
	if err != nil {
		t.Fatalf("unread failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 unread, got %d", count)
	}

	if err := s.MarkNotificationsRead(ctx, alice.ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	count, err = s.UnreadNotifications(ctx, alice.ID)
	if err != nil {
		t.Fatalf("unread failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 unread after mark, got %d", count)
	}

	// Read rows stay listed
	page, err := s.Notifications(ctx, alice.ID, nil, 10)
	if err != nil {
		t.Fatalf("notifications failed: %v", err)
	}
	if len(page.Notifications) != 2 {
		t.Errorf("expected 2 notifications, got %d", len(page.Notifications))
	}
	for _, notif := range page.Notifications {
		if !notif.Read {
			t.Errorf("notification %d should be read", notif.ID)
		}
	}
}

func TestNotificationPushPayload(t *testing.T) {
	s, broadcaster := newTestService(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	post := createPost(t, s, alice.ID, "push me")
	if _, err := s.ToggleLike(ctx, post.ID, bob.ID); err != nil {
		t.Fatalf("like failed: %v", err)
	}

	broadcaster.mu.Lock()
	pushes := broadcaster.pushes[alice.ID]
	broadcaster.mu.Unlock()
	if len(pushes) != 1 {
		t.Fatalf("expected 1 push, got %d", len(pushes))
	}

	var event struct {
		Event string `json:"event"`
		Data  struct {
			Type  string `json:"type"`
			Actor struct {
				Username string `json:"username"`
			} `json:"actor"`
		} `json:"data"`
	}
	if err := json.Unmarshal(pushes[0], &event); err != nil {
		t.Fatalf("push payload is not valid JSON: %v", err)
	}
	if event.Event != "notification" {
		t.Errorf("expected event notification, got %s", event.Event)
	}
	if event.Data.Type != "like" {
		t.Errorf("expected like payload, got %s", event.Data.Type)
	}
	if event.Data.Actor.Username != "bob" {
		t.Errorf("expected actor bob, got %s", event.Data.Actor.Username)
	}

	// The unlike removes the row without a second push
	if _, err := s.ToggleLike(ctx, post.ID, bob.ID); err != nil {
		t.Fatalf("unlike failed: %v", err)
	}
	if got := broadcaster.count(alice.ID); got != 1 {
		t.Errorf("unlike must not push, got %d pushes", got)
	}
}
