package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post represents a blog post stored in MongoDB
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID      uint               `json:"author_id" bson:"author_id"`
	Title         string             `json:"title" bson:"title"`
	Content       string             `json:"content" bson:"content"`
	Status        string             `json:"status" bson:"status"`
	Category      string             `json:"category,omitempty" bson:"category,omitempty"`
	Tags          []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	FeaturedImage string             `json:"featured_image,omitempty" bson:"featured_image,omitempty"`
	PublishedAt   *time.Time         `json:"published_at,omitempty" bson:"published_at,omitempty"`
	ViewCount     int64              `json:"view_count" bson:"view_count"`
	LikeCount     int64              `json:"like_count" bson:"like_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// PostSummary is the slice of a post shown next to an author in follow listings
type PostSummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	PublishedAt *time.Time `json:"published_at"`
	ViewCount   int64      `json:"view_count"`
	LikeCount   int64      `json:"like_count"`
}

func (p *Post) ToSummary() PostSummary {
	return PostSummary{
		ID:          p.ID.Hex(),
		Title:       p.Title,
		PublishedAt: p.PublishedAt,
		ViewCount:   p.ViewCount,
		LikeCount:   p.LikeCount,
	}
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title         string   `json:"title" validate:"required,min=1,max=200"`
	Content       string   `json:"content" validate:"max=200000"`
	Status        string   `json:"status" validate:"omitempty,oneof=draft published"`
	Category      string   `json:"category,omitempty" validate:"max=50"`
	Tags          []string `json:"tags,omitempty" validate:"max=10,dive,min=1,max=30"`
	FeaturedImage string   `json:"featured_image,omitempty" validate:"omitempty,url"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title         *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content       *string  `json:"content,omitempty" validate:"omitempty,max=200000"`
	Status        *string  `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	Category      *string  `json:"category,omitempty" validate:"omitempty,max=50"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=30"`
	FeaturedImage *string  `json:"featured_image,omitempty" validate:"omitempty,url"`
}

// FeedPost is a published post shown in a reader's feed
type FeedPost struct {
	Post
	Author  UserCompact `json:"author"`
	IsLiked bool        `json:"is_liked"`
}

// FeedPage is one page of a reader's feed
type FeedPage struct {
	Posts       []FeedPost
	Page        int
	Limit       int
	HasNextPage bool
}
