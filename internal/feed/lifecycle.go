package feed

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chirpnet/chirp/internal/db"
	"github.com/chirpnet/chirp/internal/models"
	"github.com/chirpnet/chirp/pkg/telemetry"
)

// CreatePostInput carries the fields of a post creation request
type CreatePostInput struct {
	AuthorID int64
	Content  *string
	Image    *string
	ParentID *int64
	RepostID *int64
	QuoteID  *int64
}

// CreatePostResult is either the created post or a repost-undo marker
type CreatePostResult struct {
	Post    *PostView `json:"post,omitempty"`
	Deleted bool      `json:"deleted,omitempty"`
}

// isRepostToggle reports whether the request is a pure-repost toggle:
// repost target set with no content, image, quote or parent of its own.
func (in *CreatePostInput) isRepostToggle() bool {
	return in.RepostID != nil &&
		(in.Content == nil || *in.Content == "") &&
		(in.Image == nil || *in.Image == "") &&
		in.QuoteID == nil && in.ParentID == nil
}

// CreatePost creates a post, reply, repost or quote. A repeated pure
// repost of the same target by the same author is an undo: the existing
// share row is removed instead of creating a second one.
func (s *Service) CreatePost(ctx context.Context, input CreatePostInput) (*CreatePostResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.create_post")
	defer span.End()

	postRepo := db.NewPostRepository(s.repo)

	if input.isRepostToggle() {
		target, err := postRepo.GetByID(ctx, *input.RepostID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, ErrNotFound
		}

		existing, err := postRepo.FindPureRepost(ctx, input.AuthorID, *input.RepostID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			// Undo semantics, not a second repost
			err := s.repo.DB().Transaction(func(tx *gorm.DB) error {
				return deleteCascade(tx.WithContext(ctx), []int64{existing.ID})
			})
			if err != nil {
				return nil, err
			}
			s.logger.Debug("Repost undone",
				zap.Int64("author_id", input.AuthorID),
				zap.Int64("target_id", *input.RepostID))
			return &CreatePostResult{Deleted: true}, nil
		}
		// No existing share; fall through to normal creation
	} else if input.RepostID != nil {
		// Shares with commentary or media are quotes, not reposts
		return nil, ErrInvalidRepost
	} else if (input.Content == nil || *input.Content == "") && input.Image == nil && input.QuoteID == nil {
		return nil, ErrEmptyPost
	}

	// The referenced post, if any, must exist. At most one reference is
	// populated on this path, in notification priority order.
	var notifType int16
	var target *models.Post
	for _, ref := range []struct {
		id     *int64
		typeID int16
	}{
		{input.ParentID, models.NotifyTypeReply},
		{input.RepostID, models.NotifyTypeRepost},
		{input.QuoteID, models.NotifyTypeQuote},
	} {
		if ref.id == nil {
			continue
		}
		row, err := postRepo.GetByID(ctx, *ref.id)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, ErrNotFound
		}
		if notifType == 0 {
			notifType = ref.typeID
			target = row
		}
	}

	post := &models.Post{
		AuthorID:  input.AuthorID,
		Content:   toNullString(input.Content),
		Image:     toNullString(input.Image),
		ParentID:  toNullInt64(input.ParentID),
		RepostID:  toNullInt64(input.RepostID),
		QuoteID:   toNullInt64(input.QuoteID),
		CreatedAt: time.Now().UTC(),
	}

	var notif *models.Notification
	err := s.repo.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(post).Error; err != nil {
			return err
		}
		// No self-notifications
		if notifType != 0 && target.AuthorID != input.AuthorID {
			notif = &models.Notification{
				Type:      notifType,
				UserID:    target.AuthorID,
				ActorID:   input.AuthorID,
				PostID:    sql.NullInt64{Int64: post.ID, Valid: true},
				CreatedAt: post.CreatedAt,
			}
			if err := tx.WithContext(ctx).Create(notif).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// The unique (author_id, repost_id) pair is the final arbiter:
		// a concurrent toggle inserted the share between the existence
		// check and this insert, so its row is the canonical state.
		if input.isRepostToggle() && errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Debug("Repost toggle raced, share already exists",
				zap.Int64("author_id", input.AuthorID),
				zap.Int64("target_id", *input.RepostID))
			existing, ferr := postRepo.FindPureRepost(ctx, input.AuthorID, *input.RepostID)
			if ferr != nil {
				return nil, ferr
			}
			if existing == nil {
				// The winning share was already undone again
				return &CreatePostResult{Deleted: true}, nil
			}
			view, verr := s.hydratePost(ctx, existing, &input.AuthorID)
			if verr != nil {
				return nil, verr
			}
			return &CreatePostResult{Post: view}, nil
		}
		return nil, err
	}

	if notif != nil {
		s.pushNotification(ctx, notif.ID, notif.UserID)
	}

	view, err := s.hydratePost(ctx, post, &input.AuthorID)
	if err != nil {
		return nil, err
	}
	return &CreatePostResult{Post: view}, nil
}

// ToggleLike flips the like state of (user, post). The unique pair
// constraint is the final arbiter under concurrency: a duplicate-key
// failure means the other request already produced the canonical state,
// so the operation answers as if its own view had won.
func (s *Service) ToggleLike(ctx context.Context, postID, userID int64) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.toggle_like")
	defer span.End()

	postRepo := db.NewPostRepository(s.repo)
	likeRepo := db.NewLikeRepository(s.repo)

	post, err := postRepo.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}
	if post == nil {
		return false, ErrNotFound
	}

	existing, err := likeRepo.Get(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	if existing != nil {
		// Unlike: the notification must not outlive its like
		err := s.repo.DB().Transaction(func(tx *gorm.DB) error {
			if err := tx.WithContext(ctx).
				Where("user_id = ? AND post_id = ?", userID, postID).
				Delete(&models.Like{}).Error; err != nil {
				return err
			}
			return tx.WithContext(ctx).
				Where("type = ? AND actor_id = ? AND post_id = ? AND user_id = ?",
					models.NotifyTypeLike, userID, postID, post.AuthorID).
				Delete(&models.Notification{}).Error
		})
		if err != nil {
			return false, err
		}
		return false, nil
	}

	var notif *models.Notification
	raced := false
	err = s.repo.DB().Transaction(func(tx *gorm.DB) error {
		like := &models.Like{
			UserID:    userID,
			PostID:    postID,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.WithContext(ctx).Create(like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				raced = true
				return nil
			}
			return err
		}
		if post.AuthorID != userID {
			notif = &models.Notification{
				Type:      models.NotifyTypeLike,
				UserID:    post.AuthorID,
				ActorID:   userID,
				PostID:    sql.NullInt64{Int64: postID, Valid: true},
				CreatedAt: like.CreatedAt,
			}
			return tx.WithContext(ctx).Create(notif).Error
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if raced {
		s.logger.Debug("Like toggle raced, pair already exists",
			zap.Int64("user_id", userID), zap.Int64("post_id", postID))
	} else if notif != nil {
		s.pushNotification(ctx, notif.ID, notif.UserID)
	}
	return true, nil
}

// ToggleFollow flips the follow state of (follower, following),
// mirroring ToggleLike. Self-follow is a business-rule violation.
func (s *Service) ToggleFollow(ctx context.Context, followerID, followingID int64) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.toggle_follow")
	defer span.End()

	if followerID == followingID {
		return false, ErrSelfFollow
	}

	userRepo := db.NewUserRepository(s.repo)
	followRepo := db.NewFollowRepository(s.repo)

	target, err := userRepo.GetByID(ctx, followingID)
	if err != nil {
		return false, err
	}
	if target == nil {
		return false, ErrNotFound
	}

	existing, err := followRepo.Get(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}

	if existing != nil {
		err := s.repo.DB().Transaction(func(tx *gorm.DB) error {
			if err := tx.WithContext(ctx).
				Where("follower_id = ? AND following_id = ?", followerID, followingID).
				Delete(&models.Follow{}).Error; err != nil {
				return err
			}
			return tx.WithContext(ctx).
				Where("type = ? AND actor_id = ? AND user_id = ?",
					models.NotifyTypeFollow, followerID, followingID).
				Delete(&models.Notification{}).Error
		})
		if err != nil {
			return false, err
		}
		return false, nil
	}

	var notif *models.Notification
	raced := false
	err = s.repo.DB().Transaction(func(tx *gorm.DB) error {
		follow := &models.Follow{
			FollowerID:  followerID,
			FollowingID: followingID,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.WithContext(ctx).Create(follow).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				raced = true
				return nil
			}
			return err
		}
		notif = &models.Notification{
			Type:      models.NotifyTypeFollow,
			UserID:    followingID,
			ActorID:   followerID,
			CreatedAt: follow.CreatedAt,
		}
		return tx.WithContext(ctx).Create(notif).Error
	})
	if err != nil {
		return false, err
	}

	if !raced && notif != nil {
		s.pushNotification(ctx, notif.ID, notif.UserID)
	}
	return true, nil
}

// DeletePost removes a post and everything hanging off it: likes,
// notifications referencing it, and descendant replies/reposts/quotes.
// Only the author may delete.
func (s *Service) DeletePost(ctx context.Context, postID, userID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "feed.delete_post")
	defer span.End()

	postRepo := db.NewPostRepository(s.repo)

	post, err := postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	if post.AuthorID != userID {
		return ErrNotAuthorized
	}

	descendants, err := postRepo.CollectDescendantIDs(ctx, []int64{postID})
	if err != nil {
		return err
	}
	all := append(descendants, postID)

	// Gather hosted images before the rows disappear
	rows, err := postRepo.GetByIDs(ctx, all)
	if err != nil {
		return err
	}
	var images []string
	for _, row := range rows {
		if row.Image.Valid {
			images = append(images, row.Image.String)
		}
	}

	err = s.repo.DB().Transaction(func(tx *gorm.DB) error {
		return deleteCascade(tx.WithContext(ctx), all)
	})
	if err != nil {
		return err
	}

	// Image removal is best-effort; the rows are already gone
	for _, image := range images {
		if err := s.storage.Destroy(ctx, image); err != nil {
			s.logger.Warn("Failed to destroy image", zap.String("url", image), zap.Error(err))
		}
	}

	s.logger.Info("Post deleted",
		zap.Int64("post_id", postID),
		zap.Int("cascaded", len(descendants)))
	return nil
}

// deleteCascade removes posts and their dependent likes and
// notifications inside the caller's transaction
func deleteCascade(tx *gorm.DB, postIDs []int64) error {
	if len(postIDs) == 0 {
		return nil
	}
	if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Notification{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", postIDs).Delete(&models.Post{}).Error
}

func toNullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func toNullInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}
