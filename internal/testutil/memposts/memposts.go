// Package memposts is an in-memory PostRepository for tests.
package memposts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repo is an in-memory repositories.PostRepository.
type Repo struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]models.Post
	Views map[string]int
}

func New() *Repo {
	return &Repo{posts: map[primitive.ObjectID]models.Post{}, Views: map[string]int{}}
}

func (r *Repo) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	post.UpdatedAt = post.CreatedAt
	r.posts[post.ID] = *post
	return nil
}

func (r *Repo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[objID]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	return &post, nil
}

func (r *Repo) GetPostsByAuthor(_ context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	return r.filter(func(p models.Post) bool { return p.AuthorID == authorID }, func(a, b models.Post) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}, skip, limit), nil
}

func (r *Repo) GetLatestDraft(_ context.Context, authorID uint) (*models.Post, error) {
	drafts := r.filter(func(p models.Post) bool {
		return p.AuthorID == authorID && p.Status == models.PostStatusDraft
	}, func(a, b models.Post) bool { return a.UpdatedAt.After(b.UpdatedAt) }, 0, 1)
	if len(drafts) == 0 {
		return nil, repositories.ErrPostNotFound
	}
	return &drafts[0], nil
}

func (r *Repo) GetRecentPublished(_ context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	return r.filter(func(p models.Post) bool {
		return p.AuthorID == authorID && p.IsPublished()
	}, func(a, b models.Post) bool { return a.CreatedAt.After(b.CreatedAt) }, skip, limit), nil
}

func (r *Repo) GetPublishedByAuthors(_ context.Context, authorIDs []uint, skip, limit int64) ([]models.Post, error) {
	authors := make(map[uint]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}
	return r.filter(func(p models.Post) bool {
		return authors[p.AuthorID] && p.IsPublished()
	}, func(a, b models.Post) bool { return a.PublishedAt.After(*b.PublishedAt) }, skip, limit), nil
}

func (r *Repo) UpdatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return repositories.ErrPostNotFound
	}
	r.posts[post.ID] = *post
	return nil
}

func (r *Repo) DeletePost(_ context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[objID]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(r.posts, objID)
	return nil
}

func (r *Repo) IncrementViewCount(_ context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	post := r.posts[objID]
	post.ViewCount++
	r.posts[objID] = post
	r.Views[id]++
	return nil
}

func (r *Repo) SetLikeCount(_ context.Context, id string, count int64) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[objID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	post.LikeCount = count
	r.posts[objID] = post
	return nil
}

func (r *Repo) filter(keep func(models.Post) bool, less func(a, b models.Post) bool, skip, limit int64) []models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Post{}
	for _, p := range r.posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if skip >= int64(len(out)) {
		return []models.Post{}
	}
	out = out[skip:]
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out
}

// Publish stores a published post by authorID stamped at the given time.
func (r *Repo) Publish(authorID uint, title string, at time.Time) models.Post {
	post := models.Post{
		AuthorID:    authorID,
		Title:       title,
		Status:      models.PostStatusPublished,
		PublishedAt: &at,
		CreatedAt:   at,
	}
	_ = r.CreatePost(context.Background(), &post)
	return post
}

var _ repositories.PostRepository = (*Repo)(nil)
