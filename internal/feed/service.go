package feed

import (
	"go.uber.org/zap"

	"github.com/chirpnet/chirp/internal/cache"
	"github.com/chirpnet/chirp/internal/db"
	"github.com/chirpnet/chirp/internal/storage"
	"github.com/chirpnet/chirp/pkg/logging"
)

// Broadcaster pushes a message to every live connection of one user.
// Pushes to users with no live connection are silently dropped; the
// persisted notification row is the source of truth.
type Broadcaster interface {
	BroadcastToUser(userID int64, message []byte)
}

// noopBroadcaster drops everything, used when no realtime hub is wired
type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToUser(int64, []byte) {}

// Service implements the post lifecycle, interaction status resolution,
// timeline pagination and notification fanout on top of the store.
type Service struct {
	repo        *db.Repository
	cache       *cache.Cache
	storage     *storage.Client
	broadcaster Broadcaster
	logger      *zap.Logger
}

// NewService creates a new feed service
func NewService(repo *db.Repository, redisCache *cache.Cache, store *storage.Client, broadcaster Broadcaster) *Service {
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	return &Service{
		repo:        repo,
		cache:       redisCache,
		storage:     store,
		broadcaster: broadcaster,
		logger:      logging.WithComponent("feed"),
	}
}
