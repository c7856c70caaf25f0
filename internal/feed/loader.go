package feed

import (
	"context"

	"github.com/chirpnet/chirp/internal/db"
	"github.com/chirpnet/chirp/internal/models"
	"github.com/chirpnet/chirp/pkg/telemetry"
)

// hydratePosts turns post rows into fully rendered views: author
// summaries, nested repost/quote posts (a repost target may itself be a
// quote, giving depth post.repost.quote), derived counts and viewer
// flags. Everything is batched; the number of queries does not grow
// with the page size.
func (s *Service) hydratePosts(ctx context.Context, rows []*models.Post, viewerID *int64) ([]*PostView, error) {
	if len(rows) == 0 {
		return []*PostView{}, nil
	}

	ctx, span := telemetry.StartSpan(ctx, "feed.hydrate_posts")
	defer span.End()

	postRepo := db.NewPostRepository(s.repo)
	userRepo := db.NewUserRepository(s.repo)

	// First level of references: repost and quote targets
	level1IDs := make(map[int64]bool)
	for _, row := range rows {
		if row.RepostID.Valid {
			level1IDs[row.RepostID.Int64] = true
		}
		if row.QuoteID.Valid {
			level1IDs[row.QuoteID.Int64] = true
		}
	}
	level1, err := postRepo.GetByIDs(ctx, idSetToSlice(level1IDs))
	if err != nil {
		return nil, err
	}
	refs := make(map[int64]*models.Post, len(level1))
	for _, row := range level1 {
		refs[row.ID] = row
	}

	// Second level: quotes of repost targets
	level2IDs := make(map[int64]bool)
	for _, row := range level1 {
		if row.QuoteID.Valid && refs[row.QuoteID.Int64] == nil {
			level2IDs[row.QuoteID.Int64] = true
		}
	}
	level2, err := postRepo.GetByIDs(ctx, idSetToSlice(level2IDs))
	if err != nil {
		return nil, err
	}
	for _, row := range level2 {
		refs[row.ID] = row
	}

	// Authors across every depth
	authorIDs := make(map[int64]bool)
	for _, row := range rows {
		authorIDs[row.AuthorID] = true
	}
	for _, row := range refs {
		authorIDs[row.AuthorID] = true
	}
	users, err := userRepo.GetByIDs(ctx, idSetToSlice(authorIDs))
	if err != nil {
		return nil, err
	}
	authors := make(map[int64]*models.User, len(users))
	for _, user := range users {
		authors[user.ID] = user
	}

	// Assemble the nested views
	views := make([]*PostView, 0, len(rows))
	for _, row := range rows {
		views = append(views, buildPostView(row, refs, authors, 0))
	}

	// Derived counts over the flattened id set
	idSet := make(map[int64]bool)
	for _, view := range views {
		collectPostIDs(view, idSet)
	}
	counts, err := postRepo.CountsByPostIDs(ctx, idSetToSlice(idSet))
	if err != nil {
		return nil, err
	}
	for _, view := range views {
		projectCounts(view, counts)
	}

	// Viewer flags
	if err := s.ResolveStatus(ctx, views, viewerID); err != nil {
		return nil, err
	}

	return views, nil
}

// hydratePost is the single-row convenience wrapper
func (s *Service) hydratePost(ctx context.Context, row *models.Post, viewerID *int64) (*PostView, error) {
	views, err := s.hydratePosts(ctx, []*models.Post{row}, viewerID)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// buildPostView renders one row and recurses into its references.
// Depth is bounded: nesting stops after repost -> quote.
func buildPostView(row *models.Post, refs map[int64]*models.Post, authors map[int64]*models.User, depth int) *PostView {
	if row == nil {
		return nil
	}

	view := &PostView{
		ID:        row.ID,
		Kind:      row.Kind().String(),
		Author:    NewUserSummary(authors[row.AuthorID]),
		CreatedAt: row.CreatedAt,
	}
	if row.Content.Valid {
		content := row.Content.String
		view.Content = &content
	}
	if row.Image.Valid {
		image := row.Image.String
		view.Image = &image
	}
	if row.ParentID.Valid {
		parentID := row.ParentID.Int64
		view.ParentID = &parentID
	}

	if depth >= 2 {
		return view
	}
	if row.RepostID.Valid {
		view.Repost = buildPostView(refs[row.RepostID.Int64], refs, authors, depth+1)
	}
	if row.QuoteID.Valid {
		view.Quote = buildPostView(refs[row.QuoteID.Int64], refs, authors, depth+1)
	}
	return view
}

// projectCounts writes derived counts onto a view tree
func projectCounts(view *PostView, counts map[int64]*models.PostCounts) {
	if view == nil {
		return
	}
	if c, ok := counts[view.ID]; ok {
		view.Counts = *c
	}
	projectCounts(view.Repost, counts)
	projectCounts(view.Quote, counts)
}

func idSetToSlice(set map[int64]bool) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
