package db

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/chirpnet/chirp/internal/models"
)

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByIDs retrieves multiple posts by ids
func (r *PostRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Post, error) {
	if len(ids) == 0 {
		return []*models.Post{}, nil
	}
	var posts []*models.Post
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// FindPureRepost looks up an existing pure-repost row for (author, target).
// Pure reposts are the only rows with repost_id set, so the author/target
// pair identifies at most one toggleable share.
func (r *PostRepository) FindPureRepost(ctx context.Context, authorID, repostID int64) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND repost_id = ?", authorID, repostID).
		Where("content IS NULL AND image IS NULL AND quote_id IS NULL AND parent_id IS NULL").
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// ListFeed retrieves top-level posts (no parent), newest first with an
// exclusive cursor. limit is passed through as-is; pagination trimming
// is the caller's concern.
func (r *PostRepository) ListFeed(ctx context.Context, cursor *models.Post, limit int) ([]*models.Post, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("parent_id IS NULL")
	if cursor != nil {
		query = beforeKeyset(query, cursor.CreatedAt, cursor.ID)
	}

	var posts []*models.Post
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAuthor retrieves an author's top-level posts, newest first
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID int64, cursor *models.Post, limit int) ([]*models.Post, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ? AND parent_id IS NULL", authorID)
	if cursor != nil {
		query = beforeKeyset(query, cursor.CreatedAt, cursor.ID)
	}

	var posts []*models.Post
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListRepliesByAuthor retrieves an author's replies, newest first
func (r *PostRepository) ListRepliesByAuthor(ctx context.Context, authorID int64, cursor *models.Post, limit int) ([]*models.Post, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ? AND parent_id IS NOT NULL", authorID)
	if cursor != nil {
		query = beforeKeyset(query, cursor.CreatedAt, cursor.ID)
	}

	var posts []*models.Post
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListLikedBy retrieves posts a user has liked, newest post first
func (r *PostRepository) ListLikedBy(ctx context.Context, userID int64, cursor *models.Post, limit int) ([]*models.Post, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Joins("INNER JOIN likes ON likes.post_id = posts.id").
		Where("likes.user_id = ?", userID)
	if cursor != nil {
		query = query.Where("(posts.created_at, posts.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var posts []*models.Post
	if err := query.Order("posts.created_at DESC, posts.id DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListReplies retrieves the direct replies of a post, oldest first so a
// thread reads top-down
func (r *PostRepository) ListReplies(ctx context.Context, parentID int64, cursor *models.Post, limit int) ([]*models.Post, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("parent_id = ?", parentID)
	if cursor != nil {
		query = afterKeyset(query, cursor.CreatedAt, cursor.ID)
	}

	var posts []*models.Post
	if err := query.Order("created_at ASC, id ASC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Search retrieves posts whose content contains the query,
// case-insensitive, newest first
func (r *PostRepository) Search(ctx context.Context, q string, cursor *models.Post, limit int) ([]*models.Post, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("content IS NOT NULL AND LOWER(content) LIKE ?", pattern)
	if cursor != nil {
		query = beforeKeyset(query, cursor.CreatedAt, cursor.ID)
	}

	var posts []*models.Post
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// CountByAuthor counts an author's posts
func (r *PostRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// RepostedPostIDs returns which of the given posts the user has shared
// as a pure repost
func (r *PostRepository) RepostedPostIDs(ctx context.Context, userID int64, postIDs []int64) ([]int64, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ? AND repost_id IN ?", userID, postIDs).
		Pluck("repost_id", &ids).Error
	return ids, err
}

// QuotedPostIDs returns which of the given posts the user has quoted
func (r *PostRepository) QuotedPostIDs(ctx context.Context, userID int64, postIDs []int64) ([]int64, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ? AND quote_id IN ?", userID, postIDs).
		Pluck("quote_id", &ids).Error
	return ids, err
}

// referenceCount is a grouped count keyed by referenced post
type referenceCount struct {
	PostID int64 `gorm:"column:ref_id"`
	Count  int64 `gorm:"column:cnt"`
}

// CountsByPostIDs computes the derived interaction counts for a batch of
// posts with four grouped queries, regardless of batch size.
func (r *PostRepository) CountsByPostIDs(ctx context.Context, postIDs []int64) (map[int64]*models.PostCounts, error) {
	counts := make(map[int64]*models.PostCounts, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	for _, id := range postIDs {
		counts[id] = &models.PostCounts{}
	}

	grouped := func(query *gorm.DB, assign func(c *models.PostCounts, n int64)) error {
		var rows []referenceCount
		if err := query.Scan(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			if c, ok := counts[row.PostID]; ok {
				assign(c, row.Count)
			}
		}
		return nil
	}

	if err := grouped(
		r.db.WithContext(ctx).Model(&models.Like{}).
			Select("post_id AS ref_id, COUNT(*) AS cnt").
			Where("post_id IN ?", postIDs).Group("post_id"),
		func(c *models.PostCounts, n int64) { c.Likes = n },
	); err != nil {
		return nil, err
	}

	if err := grouped(
		r.db.WithContext(ctx).Model(&models.Post{}).
			Select("parent_id AS ref_id, COUNT(*) AS cnt").
			Where("parent_id IN ?", postIDs).Group("parent_id"),
		func(c *models.PostCounts, n int64) { c.Replies = n },
	); err != nil {
		return nil, err
	}

	if err := grouped(
		r.db.WithContext(ctx).Model(&models.Post{}).
			Select("repost_id AS ref_id, COUNT(*) AS cnt").
			Where("repost_id IN ?", postIDs).Group("repost_id"),
		func(c *models.PostCounts, n int64) { c.Reposts = n },
	); err != nil {
		return nil, err
	}

	if err := grouped(
		r.db.WithContext(ctx).Model(&models.Post{}).
			Select("quote_id AS ref_id, COUNT(*) AS cnt").
			Where("quote_id IN ?", postIDs).Group("quote_id"),
		func(c *models.PostCounts, n int64) { c.Quotes = n },
	); err != nil {
		return nil, err
	}

	return counts, nil
}

// CollectDescendantIDs walks the reference graph downward from the given
// roots and returns every post that replies to, reposts or quotes one of
// them, transitively. Used by cascade deletion so no dangling parent_id
// is left behind.
func (r *PostRepository) CollectDescendantIDs(ctx context.Context, rootIDs []int64) ([]int64, error) {
	seen := make(map[int64]bool, len(rootIDs))
	for _, id := range rootIDs {
		seen[id] = true
	}
	frontier := append([]int64(nil), rootIDs...)
	var collected []int64

	for len(frontier) > 0 {
		var next []int64
		err := r.db.WithContext(ctx).
			Model(&models.Post{}).
			Where("parent_id IN ? OR repost_id IN ? OR quote_id IN ?", frontier, frontier, frontier).
			Pluck("id", &next).Error
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, id := range next {
			if !seen[id] {
				seen[id] = true
				collected = append(collected, id)
				frontier = append(frontier, id)
			}
		}
	}

	return collected, nil
}
