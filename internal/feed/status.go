package feed

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/chirpnet/chirp/internal/db"
	"github.com/chirpnet/chirp/pkg/telemetry"
)

// ResolveStatus annotates every post, and every nested repost/quote, with
// the viewer's liked/reposted/quoted flags. Without a viewer all flags
// stay false and no queries are issued. With a viewer the ids of all
// posts at all nesting depths are collected into one flat set and three
// membership queries run in parallel, so the round-trip count is
// constant regardless of page size or nesting.
func (s *Service) ResolveStatus(ctx context.Context, posts []*PostView, viewerID *int64) error {
	if viewerID == nil || len(posts) == 0 {
		return nil
	}

	ctx, span := telemetry.StartSpan(ctx, "feed.resolve_status")
	defer span.End()

	// Flatten ids across the nested shape
	idSet := make(map[int64]bool)
	for _, post := range posts {
		collectPostIDs(post, idSet)
	}
	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	likeRepo := db.NewLikeRepository(s.repo)
	postRepo := db.NewPostRepository(s.repo)

	var likedIDs, repostedIDs, quotedIDs []int64
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		likedIDs, err = likeRepo.LikedPostIDs(groupCtx, *viewerID, ids)
		return err
	})
	group.Go(func() error {
		var err error
		repostedIDs, err = postRepo.RepostedPostIDs(groupCtx, *viewerID, ids)
		return err
	})
	group.Go(func() error {
		var err error
		quotedIDs, err = postRepo.QuotedPostIDs(groupCtx, *viewerID, ids)
		return err
	})
	if err := group.Wait(); err != nil {
		return err
	}

	liked := toIDSet(likedIDs)
	reposted := toIDSet(repostedIDs)
	quoted := toIDSet(quotedIDs)

	for _, post := range posts {
		projectStatus(post, liked, reposted, quoted)
	}
	return nil
}

// collectPostIDs gathers the id of a post and of its nested references
func collectPostIDs(post *PostView, into map[int64]bool) {
	if post == nil {
		return
	}
	into[post.ID] = true
	collectPostIDs(post.Repost, into)
	collectPostIDs(post.Quote, into)
}

// projectStatus writes membership flags onto a post and its nested
// references in a single recursive pass
func projectStatus(post *PostView, liked, reposted, quoted map[int64]bool) {
	if post == nil {
		return
	}
	post.IsLikedByMe = liked[post.ID]
	post.IsRepostedByMe = reposted[post.ID]
	post.IsQuotedByMe = quoted[post.ID]
	projectStatus(post.Repost, liked, reposted, quoted)
	projectStatus(post.Quote, liked, reposted, quoted)
}

func toIDSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
