package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error)
	GetLatestDraft(ctx context.Context, authorID uint) (*models.Post, error)
	// GetRecentPublished returns the author's published posts, newest publication first.
	GetRecentPublished(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error)
	// GetPublishedByAuthors returns published posts of any of authorIDs, newest publication first.
	GetPublishedByAuthors(ctx context.Context, authorIDs []uint, skip, limit int64) ([]models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id string) error
	IncrementViewCount(ctx context.Context, id string) error
	// SetLikeCount stores the like total counted from the likes table.
	SetLikeCount(ctx context.Context, id string, count int64) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// EnsureIndexes creates the indexes the listing queries rely on
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "status", Value: 1}, {Key: "published_at", Value: -1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	now := time.Now()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *MongoPostRepository) GetPostsByAuthor(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"author_id": authorID}, opts)
}

func (r *MongoPostRepository) GetLatestDraft(ctx context.Context, authorID uint) (*models.Post, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"author_id": authorID, "status": models.PostStatusDraft}, opts).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetRecentPublished lists an author's published posts, most recently created first.
func (r *MongoPostRepository) GetRecentPublished(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return r.find(ctx, bson.M{"author_id": authorID, "status": models.PostStatusPublished}, opts)
}

func (r *MongoPostRepository) GetPublishedByAuthors(ctx context.Context, authorIDs []uint, skip, limit int64) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	opts := options.Find().SetSkip(skip).SetLimit(limit).
		SetSort(bson.D{{Key: "published_at", Value: -1}, {Key: "_id", Value: -1}})
	filter := bson.M{"author_id": bson.M{"$in": authorIDs}, "status": models.PostStatusPublished}
	return r.find(ctx, filter, opts)
}

func (r *MongoPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"title":          post.Title,
			"content":        post.Content,
			"status":         post.Status,
			"category":       post.Category,
			"tags":           post.Tags,
			"featured_image": post.FeaturedImage,
			"published_at":   post.PublishedAt,
			"updated_at":     post.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": post.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *MongoPostRepository) IncrementViewCount(ctx context.Context, id string) error {
	objID, err := parseObjectID(id)
	if err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"view_count": 1}})
	return err
}

func (r *MongoPostRepository) SetLikeCount(ctx context.Context, id string, count int64) error {
	objID, err := parseObjectID(id)
	if err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"like_count": count}})
	return err
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	return objID, nil
}
