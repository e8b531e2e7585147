package services

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/internal/repositories"
	"go.uber.org/zap"
)

type PostService struct {
	posts  repositories.PostRepository
	users  repositories.UserRepository
	likes  repositories.LikeRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewPostService(posts repositories.PostRepository, users repositories.UserRepository, likes repositories.LikeRepository, logger *zap.Logger) *PostService {
	return &PostService{posts: posts, users: users, likes: likes, logger: logger, now: time.Now}
}

func (s *PostService) Create(ctx context.Context, identity string, req models.CreatePostRequest) (*models.Post, error) {
	author, err := s.author(ctx, identity)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID:      author.ID,
		Title:         req.Title,
		Content:       req.Content,
		Status:        req.Status,
		Category:      req.Category,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
	}
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	if post.IsPublished() {
		now := s.now()
		post.PublishedAt = &now
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		s.logger.Error("create post", zap.Uint("author_id", author.ID), zap.Error(err))
		return nil, ErrInternal
	}
	return post, nil
}

// Get returns a post. Drafts are visible to their author only; a view by anyone
// else bumps the view counter.
func (s *PostService) Get(ctx context.Context, identity, id string) (*models.Post, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var viewerID uint
	if identity != "" {
		if viewer, err := s.users.GetUserByTokenIdentifier(ctx, identity); err == nil {
			viewerID = viewer.ID
		}
	}

	if viewerID != post.AuthorID {
		if !post.IsPublished() {
			return nil, ErrPostNotFound
		}
		if err := s.posts.IncrementViewCount(ctx, id); err != nil {
			s.logger.Warn("increment view count", zap.String("post_id", id), zap.Error(err))
		} else {
			post.ViewCount++
		}
	}
	return post, nil
}

func (s *PostService) ListMine(ctx context.Context, identity string, skip, limit int64) ([]models.Post, error) {
	author, err := s.author(ctx, identity)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.GetPostsByAuthor(ctx, author.ID, skip, limit)
	if err != nil {
		s.logger.Error("list posts", zap.Uint("author_id", author.ID), zap.Error(err))
		return nil, ErrInternal
	}
	return posts, nil
}

// LatestDraft returns the caller's most recently edited draft, or nil when there is none.
func (s *PostService) LatestDraft(ctx context.Context, identity string) (*models.Post, error) {
	author, err := s.author(ctx, identity)
	if err != nil {
		return nil, err
	}
	post, err := s.posts.GetLatestDraft(ctx, author.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, nil
		}
		s.logger.Error("latest draft", zap.Uint("author_id", author.ID), zap.Error(err))
		return nil, ErrInternal
	}
	return post, nil
}

func (s *PostService) ListPublishedByUsername(ctx context.Context, username string, skip, limit int64) ([]models.Post, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("lookup username", zap.String("username", username), zap.Error(err))
		return nil, ErrInternal
	}
	posts, err := s.posts.GetRecentPublished(ctx, user.ID, skip, limit)
	if err != nil {
		s.logger.Error("list published posts", zap.Uint("author_id", user.ID), zap.Error(err))
		return nil, ErrInternal
	}
	return posts, nil
}

func (s *PostService) Update(ctx context.Context, identity, id string, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.owned(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Category != nil {
		post.Category = *req.Category
	}
	if req.Tags != nil {
		post.Tags = req.Tags
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}
	if req.Status != nil {
		post.Status = *req.Status
		if post.IsPublished() && post.PublishedAt == nil {
			now := s.now()
			post.PublishedAt = &now
		}
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error("update post", zap.String("post_id", id), zap.Error(err))
		return nil, ErrInternal
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, identity, id string) error {
	if _, err := s.owned(ctx, identity, id); err != nil {
		return err
	}
	if err := s.posts.DeletePost(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return ErrPostNotFound
		}
		s.logger.Error("delete post", zap.String("post_id", id), zap.Error(err))
		return ErrInternal
	}
	return nil
}

// ToggleLike likes a published post, or removes the caller's like if present. The
// post document's like_count is refreshed from the likes table.
func (s *PostService) ToggleLike(ctx context.Context, identity, id string) (*models.LikeState, error) {
	user, err := s.author(ctx, identity)
	if err != nil {
		return nil, err
	}
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished() {
		return nil, ErrPostNotFound
	}
	id = post.ID.Hex()

	liked, err := s.likes.ToggleLike(ctx, id, user.ID)
	if err != nil {
		s.logger.Error("toggle like", zap.String("post_id", id), zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, ErrInternal
	}
	count, err := s.likes.GetLikesCountByPostID(ctx, id)
	if err != nil {
		s.logger.Error("count likes", zap.String("post_id", id), zap.Error(err))
		return nil, ErrInternal
	}
	if err := s.posts.SetLikeCount(ctx, id, count); err != nil {
		s.logger.Warn("store like count", zap.String("post_id", id), zap.Error(err))
	}
	return &models.LikeState{Liked: liked, LikeCount: count}, nil
}

// LikeStatus reports whether the caller liked the post; anonymous callers never have.
func (s *PostService) LikeStatus(ctx context.Context, identity, id string) (*models.LikeState, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	state := &models.LikeState{LikeCount: post.LikeCount}
	id = post.ID.Hex()
	if identity == "" {
		return state, nil
	}
	user, err := s.users.GetUserByTokenIdentifier(ctx, identity)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return state, nil
		}
		s.logger.Error("lookup liker", zap.Error(err))
		return nil, ErrInternal
	}
	state.Liked, err = s.likes.HasUserLikedPost(ctx, id, user.ID)
	if err != nil {
		s.logger.Error("like status", zap.String("post_id", id), zap.Error(err))
		return nil, ErrInternal
	}
	return state, nil
}

func (s *PostService) owned(ctx context.Context, identity, id string) (*models.Post, error) {
	author, err := s.author(ctx, identity)
	if err != nil {
		return nil, err
	}
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != author.ID {
		return nil, ErrForbidden
	}
	return post, nil
}

func (s *PostService) load(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) || errors.Is(err, repositories.ErrInvalidID) {
			return nil, ErrPostNotFound
		}
		s.logger.Error("load post", zap.String("post_id", id), zap.Error(err))
		return nil, ErrInternal
	}
	return post, nil
}

func (s *PostService) author(ctx context.Context, identity string) (*models.User, error) {
	if identity == "" {
		return nil, ErrUnauthenticated
	}
	user, err := s.users.GetUserByTokenIdentifier(ctx, identity)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("lookup author", zap.Error(err))
		return nil, ErrInternal
	}
	return user, nil
}
