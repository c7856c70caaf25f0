package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/chirpnet/chirp/internal/cache"
	"github.com/chirpnet/chirp/internal/db"
	"github.com/chirpnet/chirp/internal/models"
)

// notificationEvent is the wire frame pushed over the realtime channel
type notificationEvent struct {
	Event string            `json:"event"`
	Data  *NotificationView `json:"data"`
}

const unreadCacheTTL = time.Minute

func unreadCacheKey(userID int64) string {
	return fmt.Sprintf("unread:%d", userID)
}

// pushNotification loads the freshly committed notification with its
// actor and post, and hands it to the recipient's live connections.
// Delivery is best-effort: with no connection the push is dropped and
// the persisted row remains retrievable. Called after the write
// transaction, never inside it.
func (s *Service) pushNotification(ctx context.Context, notifID, recipientID int64) {
	// The unread count changed regardless of delivery
	if err := s.cache.Delete(unreadCacheKey(recipientID)); err != nil && err != cache.ErrCacheDisabled {
		s.logger.Warn("Failed to invalidate unread cache", zap.Error(err))
	}

	notifRepo := db.NewNotificationRepository(s.repo)
	notif, err := notifRepo.GetByID(ctx, notifID)
	if err != nil || notif == nil {
		s.logger.Warn("Failed to load notification for push",
			zap.Int64("notification_id", notifID), zap.Error(err))
		return
	}

	payload, err := json.Marshal(notificationEvent{
		Event: "notification",
		Data:  s.notificationView(notif),
	})
	if err != nil {
		s.logger.Error("Failed to marshal notification payload", zap.Error(err))
		return
	}

	s.broadcaster.BroadcastToUser(recipientID, payload)
}

// notificationView renders a notification with its preloaded actor and
// post summary
func (s *Service) notificationView(notif *models.Notification) *NotificationView {
	view := &NotificationView{
		ID:        notif.ID,
		Type:      models.NotifyTypeName(notif.Type),
		Actor:     NewUserSummary(notif.Actor),
		Read:      notif.Read,
		CreatedAt: notif.CreatedAt,
	}
	if notif.Post != nil {
		authors := map[int64]*models.User{}
		if notif.Post.Author != nil {
			authors[notif.Post.AuthorID] = notif.Post.Author
		}
		// Summary rendering: no nested references, counts or flags
		view.Post = buildPostView(notif.Post, nil, authors, 2)
	}
	return view
}

// UnreadNotifications returns the recipient's unread count, served from
// cache when possible
func (s *Service) UnreadNotifications(ctx context.Context, userID int64) (int64, error) {
	key := unreadCacheKey(userID)
	if cached, err := s.cache.Get(key); err == nil {
		if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
			return count, nil
		}
	}

	notifRepo := db.NewNotificationRepository(s.repo)
	count, err := notifRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := s.cache.Set(key, count, unreadCacheTTL); err != nil && err != cache.ErrCacheDisabled {
		s.logger.Warn("Failed to cache unread count", zap.Error(err))
	}
	return count, nil
}

// MarkNotificationsRead marks all of the recipient's notifications read
func (s *Service) MarkNotificationsRead(ctx context.Context, userID int64) error {
	notifRepo := db.NewNotificationRepository(s.repo)
	if err := notifRepo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	if err := s.cache.Delete(unreadCacheKey(userID)); err != nil && err != cache.ErrCacheDisabled {
		s.logger.Warn("Failed to invalidate unread cache", zap.Error(err))
	}
	return nil
}
