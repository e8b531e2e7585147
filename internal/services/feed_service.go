package services

import (
	"context"
	"errors"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/internal/repositories"
	"go.uber.org/zap"
)

const (
	maxFeedPageSize = 50
	// pages past this are always empty
	maxFeedPage = 10000
)

// FeedService builds a reader's feed from the published posts of the authors they follow.
type FeedService struct {
	users   repositories.UserRepository
	follows repositories.FollowRepository
	posts   repositories.PostRepository
	likes   repositories.LikeRepository
	logger  *zap.Logger
}

func NewFeedService(
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	posts repositories.PostRepository,
	likes repositories.LikeRepository,
	logger *zap.Logger,
) *FeedService {
	return &FeedService{users: users, follows: follows, posts: posts, likes: likes, logger: logger}
}

// Feed returns page (1-based) of the caller's feed, newest publication first.
func (s *FeedService) Feed(ctx context.Context, identity string, page, limit int) (*models.FeedPage, error) {
	if identity == "" {
		return nil, ErrUnauthenticated
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxFeedPageSize {
		limit = 10
	}
	out := &models.FeedPage{Posts: []models.FeedPost{}, Page: page, Limit: limit}

	me, err := s.users.GetUserByTokenIdentifier(ctx, identity)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("lookup reader", zap.Error(err))
		return nil, ErrInternal
	}

	authorIDs, err := s.follows.FollowingIDs(ctx, me.ID)
	if err != nil {
		s.logger.Error("load followed authors", zap.Uint("user_id", me.ID), zap.Error(err))
		return nil, ErrInternal
	}
	if len(authorIDs) == 0 || page > maxFeedPage {
		return out, nil
	}

	// one extra post tells whether another page exists
	skip := int64(page-1) * int64(limit)
	posts, err := s.posts.GetPublishedByAuthors(ctx, authorIDs, skip, int64(limit+1))
	if err != nil {
		s.logger.Error("load feed posts", zap.Uint("user_id", me.ID), zap.Error(err))
		return nil, ErrInternal
	}
	if len(posts) > limit {
		posts = posts[:limit]
		out.HasNextPage = true
	}

	postIDs := make([]string, len(posts))
	pageAuthors := make([]uint, 0, len(posts))
	seen := make(map[uint]bool, len(posts))
	for i := range posts {
		postIDs[i] = posts[i].ID.Hex()
		if !seen[posts[i].AuthorID] {
			seen[posts[i].AuthorID] = true
			pageAuthors = append(pageAuthors, posts[i].AuthorID)
		}
	}
	authors, err := s.users.GetUsersByIDs(ctx, pageAuthors)
	if err != nil {
		s.logger.Error("load feed authors", zap.Error(err))
		return nil, ErrInternal
	}
	liked, err := s.likes.LikedPostIDs(ctx, me.ID, postIDs)
	if err != nil {
		s.logger.Error("load feed likes", zap.Uint("user_id", me.ID), zap.Error(err))
		return nil, ErrInternal
	}

	for i, p := range posts {
		author, ok := authors[p.AuthorID]
		if !ok {
			continue
		}
		out.Posts = append(out.Posts, models.FeedPost{
			Post:    p,
			Author:  author.ToCompact(),
			IsLiked: liked[postIDs[i]],
		})
	}
	return out, nil
}
