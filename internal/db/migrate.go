package db

import (
	"gorm.io/gorm"

	"github.com/chirpnet/chirp/internal/models"
)

// Migrate creates or updates the schema for all entities. The unique
// indexes on likes (user_id, post_id), follows (follower_id,
// following_id) and users (username, email) are the final arbiters for
// concurrent toggles, so they must exist before the server takes traffic.
func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Follow{},
		&models.Notification{},
	)
}
