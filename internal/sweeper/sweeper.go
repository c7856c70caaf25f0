package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chirpnet/chirp/internal/db"
	"github.com/chirpnet/chirp/internal/models"
	"github.com/chirpnet/chirp/pkg/config"
	"github.com/chirpnet/chirp/pkg/logging"
	"github.com/chirpnet/chirp/pkg/telemetry"
)

// Sweeper periodically removes rows whose referenced entities no longer
// exist. Writes go through transactions, so dangling rows should not
// appear in normal operation; the sweeper keeps the store honest after
// manual interventions or partial restores.
type Sweeper struct {
	config *config.SweeperConfig
	repo   *db.Repository
	logger *zap.Logger
}

// New creates a sweeper
func New(cfg *config.SweeperConfig, repo *db.Repository) *Sweeper {
	return &Sweeper{
		config: cfg,
		repo:   repo,
		logger: logging.WithComponent("sweeper"),
	}
}

// Run executes sweeps on the configured interval until the context is
// cancelled
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.Info("Starting consistency sweeper",
		zap.Duration("interval", s.config.Interval),
		zap.Int("batch_size", s.config.BatchSize))

	for {
		if err := s.Sweep(ctx); err != nil {
			s.logger.Error("Sweep failed", zap.Error(err))
		}

		timer := time.NewTimer(s.config.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Sweep runs one pass over every dangling-row class
func (s *Sweeper) Sweep(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "sweeper.sweep")
	defer span.End()

	passes := []struct {
		name  string
		sweep func(tx *gorm.DB, batch int) (int64, error)
	}{
		{"likes_without_posts", sweepLikesWithoutPosts},
		{"notifications_without_posts", sweepNotificationsWithoutPosts},
		{"notifications_without_actors", sweepNotificationsWithoutActors},
		{"follows_without_users", sweepFollowsWithoutUsers},
	}

	for _, pass := range passes {
		total := int64(0)
		// Batch until the class is clean
		for {
			var removed int64
			err := s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				var err error
				removed, err = pass.sweep(tx, s.config.BatchSize)
				return err
			})
			if err != nil {
				return err
			}
			total += removed
			if removed < int64(s.config.BatchSize) {
				break
			}
		}
		if total > 0 {
			s.logger.Warn("Removed dangling rows",
				zap.String("class", pass.name),
				zap.Int64("removed", total))
		}
	}
	return nil
}

func sweepLikesWithoutPosts(tx *gorm.DB, batch int) (int64, error) {
	result := tx.Where(
		"id IN (SELECT id FROM likes WHERE post_id NOT IN (SELECT id FROM posts) LIMIT ?)",
		batch,
	).Delete(&models.Like{})
	return result.RowsAffected, result.Error
}

func sweepNotificationsWithoutPosts(tx *gorm.DB, batch int) (int64, error) {
	result := tx.Where(
		"id IN (SELECT id FROM notifs WHERE post_id IS NOT NULL AND post_id NOT IN (SELECT id FROM posts) LIMIT ?)",
		batch,
	).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

func sweepNotificationsWithoutActors(tx *gorm.DB, batch int) (int64, error) {
	result := tx.Where(
		"id IN (SELECT id FROM notifs WHERE actor_id NOT IN (SELECT id FROM users) LIMIT ?)",
		batch,
	).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

func sweepFollowsWithoutUsers(tx *gorm.DB, batch int) (int64, error) {
	result := tx.Where(
		"(follower_id, following_id) IN (SELECT follower_id, following_id FROM follows "+
			"WHERE follower_id NOT IN (SELECT id FROM users) "+
			"OR following_id NOT IN (SELECT id FROM users) LIMIT ?)",
		batch,
	).Delete(&models.Follow{})
	return result.RowsAffected, result.Error
}
