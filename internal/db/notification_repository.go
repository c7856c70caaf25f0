package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/chirpnet/chirp/internal/models"
)

// NotificationRepository provides notification-related database operations
type NotificationRepository struct {
	*Repository
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(repo *Repository) *NotificationRepository {
	return &NotificationRepository{Repository: repo}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, notif *models.Notification) error {
	return r.db.WithContext(ctx).Create(notif).Error
}

// ListByRecipient retrieves a recipient's notifications newest first,
// with actor and post preloaded for rendering.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, userID int64, cursor *models.Notification, limit int) ([]*models.Notification, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Preload("Actor").
		Preload("Post").
		Preload("Post.Author").
		Where("user_id = ?", userID)
	if cursor != nil {
		query = beforeKeyset(query, cursor.CreatedAt, cursor.ID)
	}

	var notifs []*models.Notification
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&notifs).Error; err != nil {
		return nil, err
	}
	return notifs, nil
}

// GetByID retrieves a notification with actor and post preloaded
func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	var notif models.Notification
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Preload("Post").
		Preload("Post.Author").
		First(&notif, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notif, nil
}

// CountUnread counts a recipient's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAllRead marks every notification of a recipient as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}
