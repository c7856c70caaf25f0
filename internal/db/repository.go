package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/chirpnet/chirp/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying gorm handle, for callers that need to run
// several mutations inside one transaction.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// beforeKeyset applies an exclusive (created_at, id) descending keyset
// filter. The cursor row itself is skipped.
func beforeKeyset(query *gorm.DB, createdAt time.Time, id int64) *gorm.DB {
	return query.Where("(created_at, id) < (?, ?)", createdAt, id)
}

// afterKeyset is the ascending counterpart, used for oldest-first listings.
func afterKeyset(query *gorm.DB, createdAt time.Time, id int64) *gorm.DB {
	return query.Where("(created_at, id) > (?, ?)", createdAt, id)
}

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByIDs retrieves multiple users by ids
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}
	var users []*models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Search retrieves users whose username or name contains the query,
// case-insensitive, newest first with an exclusive cursor.
func (r *UserRepository) Search(ctx context.Context, q string, cursor *models.User, limit int) ([]*models.User, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("LOWER(username) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)

	if cursor != nil {
		query = beforeKeyset(query, cursor.CreatedAt, cursor.ID)
	}

	var users []*models.User
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
