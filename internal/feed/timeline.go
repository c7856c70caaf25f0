package feed

import (
	"context"

	"github.com/chirpnet/chirp/internal/db"
	"github.com/chirpnet/chirp/internal/models"
	"github.com/chirpnet/chirp/pkg/telemetry"
)

// postFetch is one cursor-ordered post query. It receives the resolved
// cursor row (nil for the first page) and the limit+1 row budget.
type postFetch func(cursor *models.Post, limit int) ([]*models.Post, error)

// postPage runs the shared pagination contract: clamp the limit, fetch
// one extra row to learn whether more remain, trim, and derive the next
// cursor from the last returned item.
func (s *Service) postPage(ctx context.Context, viewerID *int64, cursorID *int64, limit int, fetch postFetch) (*PostPage, error) {
	limit = clampLimit(limit)

	cursor, ok, err := s.resolvePostCursor(ctx, cursorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Cursor row no longer exists; the page it anchored is gone
		return &PostPage{Posts: []*PostView{}}, nil
	}

	rows, err := fetch(cursor, limit+1)
	if err != nil {
		return nil, err
	}

	count, hasMore := trimPage(len(rows), limit)
	rows = rows[:count]

	views, err := s.hydratePosts(ctx, rows, viewerID)
	if err != nil {
		return nil, err
	}

	page := &PostPage{Posts: views, HasMore: hasMore}
	if hasMore && len(views) > 0 {
		last := views[len(views)-1].ID
		page.NextCursor = &last
	}
	return page, nil
}

// resolvePostCursor loads the row a cursor id points at. A nil id means
// the first page. A missing row is reported as not-ok rather than an
// error so pagination degrades instead of failing.
func (s *Service) resolvePostCursor(ctx context.Context, cursorID *int64) (*models.Post, bool, error) {
	if cursorID == nil {
		return nil, true, nil
	}
	row, err := db.NewPostRepository(s.repo).GetByID(ctx, *cursorID)
	if err != nil {
		return nil, false, err
	}
	if row == nil {
		return nil, false, nil
	}
	return row, true, nil
}

// Feed returns the page of top-level posts, newest first
func (s *Service) Feed(ctx context.Context, viewerID *int64, cursorID *int64, limit int) (*PostPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.feed")
	defer span.End()

	postRepo := db.NewPostRepository(s.repo)
	return s.postPage(ctx, viewerID, cursorID, limit, func(cursor *models.Post, limit int) ([]*models.Post, error) {
		return postRepo.ListFeed(ctx, cursor, limit)
	})
}

// ProfilePosts returns a user's top-level posts
func (s *Service) ProfilePosts(ctx context.Context, userID int64, viewerID *int64, cursorID *int64, limit int) (*PostPage, error) {
	postRepo := db.NewPostRepository(s.repo)
	return s.postPage(ctx, viewerID, cursorID, limit, func(cursor *models.Post, limit int) ([]*models.Post, error) {
		return postRepo.ListByAuthor(ctx, userID, cursor, limit)
	})
}

// ProfileReplies returns a user's replies
func (s *Service) ProfileReplies(ctx context.Context, userID int64, viewerID *int64, cursorID *int64, limit int) (*PostPage, error) {
	postRepo := db.NewPostRepository(s.repo)
	return s.postPage(ctx, viewerID, cursorID, limit, func(cursor *models.Post, limit int) ([]*models.Post, error) {
		return postRepo.ListRepliesByAuthor(ctx, userID, cursor, limit)
	})
}

// ProfileLikes returns the posts a user has liked
func (s *Service) ProfileLikes(ctx context.Context, userID int64, viewerID *int64, cursorID *int64, limit int) (*PostPage, error) {
	postRepo := db.NewPostRepository(s.repo)
	return s.postPage(ctx, viewerID, cursorID, limit, func(cursor *models.Post, limit int) ([]*models.Post, error) {
		return postRepo.ListLikedBy(ctx, userID, cursor, limit)
	})
}

// Replies returns the direct replies of a post, oldest first
func (s *Service) Replies(ctx context.Context, postID int64, viewerID *int64, cursorID *int64, limit int) (*PostPage, error) {
	postRepo := db.NewPostRepository(s.repo)

	parent, err := postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, ErrNotFound
	}

	return s.postPage(ctx, viewerID, cursorID, limit, func(cursor *models.Post, limit int) ([]*models.Post, error) {
		return postRepo.ListReplies(ctx, postID, cursor, limit)
	})
}

// GetThread returns a post with its full ancestor chain (root first)
// and the first page of direct replies. The upward walk is unbounded by
// depth and stops silently when an ancestor has been deleted, so a
// broken chain never fails the whole request.
func (s *Service) GetThread(ctx context.Context, postID int64, viewerID *int64) (*Thread, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.get_thread")
	defer span.End()

	postRepo := db.NewPostRepository(s.repo)

	post, err := postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	// Walk parent references upward one hop at a time
	var ancestors []*models.Post
	current := post
	for current.ParentID.Valid {
		parent, err := postRepo.GetByID(ctx, current.ParentID.Int64)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		ancestors = append(ancestors, parent)
		current = parent
	}
	// Reverse into root-to-parent order
	for i, j := 0, len(ancestors)-1; i < j; i, j = i+1, j-1 {
		ancestors[i], ancestors[j] = ancestors[j], ancestors[i]
	}

	// Hydrate the post and its ancestors in one batch
	rows := append([]*models.Post{post}, ancestors...)
	views, err := s.hydratePosts(ctx, rows, viewerID)
	if err != nil {
		return nil, err
	}

	replies, err := s.Replies(ctx, postID, viewerID, nil, DefaultPageSize)
	if err != nil {
		return nil, err
	}

	return &Thread{
		Post:      views[0],
		Ancestors: views[1:],
		Replies:   replies,
	}, nil
}

// Notifications returns a recipient's notifications, newest first
func (s *Service) Notifications(ctx context.Context, userID int64, cursorID *int64, limit int) (*NotificationPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.notifications")
	defer span.End()

	limit = clampLimit(limit)
	notifRepo := db.NewNotificationRepository(s.repo)

	var cursor *models.Notification
	if cursorID != nil {
		row, err := notifRepo.GetByID(ctx, *cursorID)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return &NotificationPage{Notifications: []*NotificationView{}}, nil
		}
		cursor = row
	}

	rows, err := notifRepo.ListByRecipient(ctx, userID, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	count, hasMore := trimPage(len(rows), limit)
	rows = rows[:count]

	views := make([]*NotificationView, 0, len(rows))
	for _, row := range rows {
		views = append(views, s.notificationView(row))
	}

	page := &NotificationPage{Notifications: views, HasMore: hasMore}
	if hasMore && len(views) > 0 {
		last := views[len(views)-1].ID
		page.NextCursor = &last
	}
	return page, nil
}

// Search returns users and posts matching a case-insensitive substring
// query, each side paginated with its own cursor.
func (s *Service) Search(ctx context.Context, q string, viewerID *int64, usersCursorID, postsCursorID *int64, limit int) (*SearchResults, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.search")
	defer span.End()

	limit = clampLimit(limit)
	userRepo := db.NewUserRepository(s.repo)

	// User side
	var userCursor *models.User
	userCursorOK := true
	if usersCursorID != nil {
		row, err := userRepo.GetByID(ctx, *usersCursorID)
		if err != nil {
			return nil, err
		}
		if row == nil {
			userCursorOK = false
		}
		userCursor = row
	}

	userPage := &UserPage{Users: []*UserSummary{}}
	if userCursorOK {
		rows, err := userRepo.Search(ctx, q, userCursor, limit+1)
		if err != nil {
			return nil, err
		}
		count, hasMore := trimPage(len(rows), limit)
		rows = rows[:count]
		for _, row := range rows {
			userPage.Users = append(userPage.Users, NewUserSummary(row))
		}
		userPage.HasMore = hasMore
		if hasMore && len(rows) > 0 {
			last := rows[len(rows)-1].ID
			userPage.NextCursor = &last
		}
	}

	// Post side
	postRepo := db.NewPostRepository(s.repo)
	postPage, err := s.postPage(ctx, viewerID, postsCursorID, limit, func(cursor *models.Post, limit int) ([]*models.Post, error) {
		return postRepo.Search(ctx, q, cursor, limit)
	})
	if err != nil {
		return nil, err
	}

	return &SearchResults{Users: userPage, Posts: postPage}, nil
}

// GetProfile returns a user profile with derived counts and the
// viewer's follow state
func (s *Service) GetProfile(ctx context.Context, userID int64, viewerID *int64) (*UserProfile, error) {
	user, err := db.NewUserRepository(s.repo).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profileOf(ctx, user, viewerID)
}

// GetProfileByUsername resolves a profile by handle instead of id
func (s *Service) GetProfileByUsername(ctx context.Context, username string, viewerID *int64) (*UserProfile, error) {
	user, err := db.NewUserRepository(s.repo).GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.profileOf(ctx, user, viewerID)
}

func (s *Service) profileOf(ctx context.Context, user *models.User, viewerID *int64) (*UserProfile, error) {
	if user == nil {
		return nil, ErrNotFound
	}

	postRepo := db.NewPostRepository(s.repo)
	followRepo := db.NewFollowRepository(s.repo)

	posts, err := postRepo.CountByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followers, err := followRepo.CountFollowers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	following, err := followRepo.CountFollowing(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile := &UserProfile{
		UserSummary: *NewUserSummary(user),
		Bio:         user.Bio,
		CreatedAt:   user.CreatedAt,
		Posts:       posts,
		Followers:   followers,
		Following:   following,
	}

	if viewerID != nil && *viewerID != user.ID {
		follow, err := followRepo.Get(ctx, *viewerID, user.ID)
		if err != nil {
			return nil, err
		}
		profile.IsFollowedByMe = follow != nil
	}

	return profile, nil
}
