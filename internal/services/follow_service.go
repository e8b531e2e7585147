package services

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/internal/repositories"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	recentPostsPerUser = 3
	enrichConcurrency  = 8
)

// ListLimits bounds the size of follower/following listings
type ListLimits struct {
	Default int
	Max     int
}

var DefaultListLimits = ListLimits{Default: 20, Max: 100}

// FollowService answers follow-graph queries and performs the follow toggle.
// An empty identity string means the caller is not authenticated.
type FollowService struct {
	users   repositories.UserRepository
	follows repositories.FollowRepository
	posts   repositories.PostRepository
	logger  *zap.Logger
	limits  ListLimits
	now     func() time.Time
}

func NewFollowService(
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	posts repositories.PostRepository,
	logger *zap.Logger,
	limits ListLimits,
) *FollowService {
	return &FollowService{
		users:   users,
		follows: follows,
		posts:   posts,
		logger:  logger,
		limits:  limits,
		now:     time.Now,
	}
}

// ToggleFollow follows targetID if the caller does not follow it yet, and unfollows otherwise.
func (s *FollowService) ToggleFollow(ctx context.Context, identity string, targetID uint) (*models.ToggleFollowResult, error) {
	if identity == "" {
		return nil, ErrUnauthenticated
	}
	follower, err := s.users.GetUserByTokenIdentifier(ctx, identity)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("lookup follower", zap.Error(err))
		return nil, ErrInternal
	}
	if follower.ID == targetID {
		return nil, ErrCannotFollowSelf
	}
	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTargetNotFound
		}
		s.logger.Error("lookup follow target", zap.Uint("target_id", targetID), zap.Error(err))
		return nil, ErrInternal
	}

	following, err := s.follows.ToggleFollow(ctx, follower.ID, targetID, s.now())
	if err != nil {
		s.logger.Error("toggle follow",
			zap.Uint("follower_id", follower.ID),
			zap.Uint("following_id", targetID),
			zap.Error(err),
		)
		return nil, ErrInternal
	}
	return &models.ToggleFollowResult{Following: following}, nil
}

// IsFollowing reports whether the caller follows targetID. Anonymous callers, callers
// without a user record and an absent target all yield false.
func (s *FollowService) IsFollowing(ctx context.Context, identity string, targetID uint) (bool, error) {
	if identity == "" || targetID == 0 {
		return false, nil
	}
	me, err := s.lookupCaller(ctx, identity)
	if err != nil || me == nil {
		return false, err
	}
	ok, err := s.follows.IsFollowing(ctx, me.ID, targetID)
	if err != nil {
		s.logger.Error("is following", zap.Uint("follower_id", me.ID), zap.Uint("following_id", targetID), zap.Error(err))
		return false, ErrInternal
	}
	return ok, nil
}

// FollowerCount returns the number of users following userID; 0 for an absent id.
func (s *FollowService) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, nil
	}
	n, err := s.follows.GetFollowersCount(ctx, userID)
	if err != nil {
		s.logger.Error("count followers", zap.Uint("user_id", userID), zap.Error(err))
		return 0, ErrInternal
	}
	return n, nil
}

// FollowingCount returns the number of users userID follows; 0 for an absent id.
func (s *FollowService) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, nil
	}
	n, err := s.follows.GetFollowingCount(ctx, userID)
	if err != nil {
		s.logger.Error("count following", zap.Uint("user_id", userID), zap.Error(err))
		return 0, ErrInternal
	}
	return n, nil
}

// MyFollowers lists the caller's followers, most recent first, with whether the
// caller follows each one back. Anonymous callers get an empty list.
func (s *FollowService) MyFollowers(ctx context.Context, identity string, limit int) ([]models.FollowListEntry, error) {
	me, err := s.lookupCaller(ctx, identity)
	if err != nil || me == nil {
		return []models.FollowListEntry{}, err
	}

	edges, err := s.follows.ListFollowers(ctx, me.ID, s.clampLimit(limit))
	if err != nil {
		s.logger.Error("list followers", zap.Uint("user_id", me.ID), zap.Error(err))
		return nil, ErrInternal
	}
	ids := relatedIDs(edges, followerSide)

	followsBack, err := s.follows.FollowingSet(ctx, me.ID, ids)
	if err != nil {
		s.logger.Error("reciprocity lookup", zap.Uint("user_id", me.ID), zap.Error(err))
		return nil, ErrInternal
	}
	return s.buildEntries(ctx, edges, followerSide, entryOptions{followsBack: followsBack})
}

// MyFollowing lists the users the caller follows, most recent first, each with up to
// three recent published posts. Anonymous callers get an empty list.
func (s *FollowService) MyFollowing(ctx context.Context, identity string, limit int) ([]models.FollowListEntry, error) {
	me, err := s.lookupCaller(ctx, identity)
	if err != nil || me == nil {
		return []models.FollowListEntry{}, err
	}

	edges, err := s.follows.ListFollowing(ctx, me.ID, s.clampLimit(limit))
	if err != nil {
		s.logger.Error("list following", zap.Uint("user_id", me.ID), zap.Error(err))
		return nil, ErrInternal
	}
	return s.buildEntries(ctx, edges, followingSide, entryOptions{withRecentPosts: true})
}

// FollowersByUsername lists the followers of the user with the given username.
// FollowsBack tells whether that user follows the follower; CurrentUserFollows
// tells whether the caller does (always false for anonymous callers).
func (s *FollowService) FollowersByUsername(ctx context.Context, identity, username string, limit int) ([]models.FollowListEntry, error) {
	profile, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("lookup profile user", zap.String("username", username), zap.Error(err))
		return nil, ErrInternal
	}

	edges, err := s.follows.ListFollowers(ctx, profile.ID, s.clampLimit(limit))
	if err != nil {
		s.logger.Error("list followers", zap.Uint("user_id", profile.ID), zap.Error(err))
		return nil, ErrInternal
	}
	ids := relatedIDs(edges, followerSide)

	followsBack, err := s.follows.FollowingSet(ctx, profile.ID, ids)
	if err != nil {
		s.logger.Error("reciprocity lookup", zap.Uint("user_id", profile.ID), zap.Error(err))
		return nil, ErrInternal
	}

	currentFollows := map[uint]bool{}
	me, err := s.lookupCaller(ctx, identity)
	if err != nil {
		return nil, err
	}
	if me != nil {
		currentFollows, err = s.follows.FollowingSet(ctx, me.ID, ids)
		if err != nil {
			s.logger.Error("caller follow lookup", zap.Uint("user_id", me.ID), zap.Error(err))
			return nil, ErrInternal
		}
	}

	return s.buildEntries(ctx, edges, followerSide, entryOptions{
		followsBack:    followsBack,
		currentFollows: currentFollows,
	})
}

// lookupCaller resolves identity to a user record. It returns nil, nil for an
// anonymous caller or a caller without a record.
func (s *FollowService) lookupCaller(ctx context.Context, identity string) (*models.User, error) {
	if identity == "" {
		return nil, nil
	}
	me, err := s.users.GetUserByTokenIdentifier(ctx, identity)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("lookup caller", zap.Error(err))
		return nil, ErrInternal
	}
	return me, nil
}

func (s *FollowService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.limits.Default
	}
	if limit > s.limits.Max {
		return s.limits.Max
	}
	return limit
}

type edgeSide int

const (
	followerSide edgeSide = iota
	followingSide
)

func (side edgeSide) of(f models.Follow) uint {
	if side == followerSide {
		return f.FollowerID
	}
	return f.FollowingID
}

func relatedIDs(edges []models.Follow, side edgeSide) []uint {
	ids := make([]uint, len(edges))
	for i, e := range edges {
		ids[i] = side.of(e)
	}
	return ids
}

type entryOptions struct {
	followsBack     map[uint]bool // nil when not part of the listing
	currentFollows  map[uint]bool // nil when not part of the listing
	withRecentPosts bool
}

// buildEntries joins edges with user records, follower counts and recent posts.
// Edges whose user no longer exists are dropped; edge order is preserved.
func (s *FollowService) buildEntries(ctx context.Context, edges []models.Follow, side edgeSide, opts entryOptions) ([]models.FollowListEntry, error) {
	entries := []models.FollowListEntry{}
	if len(edges) == 0 {
		return entries, nil
	}

	ids := relatedIDs(edges, side)
	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("load related users", zap.Error(err))
		return nil, ErrInternal
	}

	present := make([]uint, 0, len(users))
	for _, id := range ids {
		if _, ok := users[id]; ok {
			present = append(present, id)
		}
	}

	counts, err := s.follows.GetFollowersCounts(ctx, present)
	if err != nil {
		s.logger.Error("count related followers", zap.Error(err))
		return nil, ErrInternal
	}

	recent, err := s.recentPosts(ctx, present)
	if err != nil {
		s.logger.Error("load recent posts", zap.Error(err))
		return nil, ErrInternal
	}

	for _, edge := range edges {
		id := side.of(edge)
		user, ok := users[id]
		if !ok {
			continue
		}
		posts := recent[id]
		entry := models.FollowListEntry{
			UserCompact:   user.ToCompact(),
			FollowedAt:    edge.CreatedAt,
			FollowerCount: counts[id],
			PostCount:     len(posts),
		}
		if len(posts) > 0 {
			entry.LastPostAt = posts[0].PublishedAt
		}
		if opts.followsBack != nil {
			entry.FollowsBack = boolPtr(opts.followsBack[id])
		}
		if opts.currentFollows != nil {
			entry.CurrentUserFollows = boolPtr(opts.currentFollows[id])
		}
		if opts.withRecentPosts {
			entry.RecentPosts = make([]models.PostSummary, len(posts))
			for i := range posts {
				entry.RecentPosts[i] = posts[i].ToSummary()
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// recentPosts fetches the newest published posts of each author concurrently.
func (s *FollowService) recentPosts(ctx context.Context, authorIDs []uint) (map[uint][]models.Post, error) {
	results := make([][]models.Post, len(authorIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, id := range authorIDs {
		g.Go(func() error {
			posts, err := s.posts.GetRecentPublished(gctx, id, 0, recentPostsPerUser)
			if err != nil {
				return err
			}
			results[i] = posts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[uint][]models.Post, len(authorIDs))
	for i, id := range authorIDs {
		out[id] = results[i]
	}
	return out, nil
}

func boolPtr(b bool) *bool {
	return &b
}
