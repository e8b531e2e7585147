package router

import (
	"context"
	"fmt"

	"github.com/anonto42/inkwell/backend/internal/ai"
	"github.com/anonto42/inkwell/backend/internal/handlers"
	"github.com/anonto42/inkwell/backend/internal/media"
	"github.com/anonto42/inkwell/backend/internal/middleware"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/internal/repositories"
	"github.com/anonto42/inkwell/backend/internal/services"
	"github.com/anonto42/inkwell/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Services are the application services routes are served by
type Services struct {
	Users   *services.UserService
	Follows *services.FollowService
	Posts   *services.PostService
	Feed    *services.FeedService
	Content *ai.ContentService
	Media   *media.Service
}

// BuildServices migrates the relational schema, creates the repositories and wires
// the services on top of them.
func BuildServices(ctx context.Context, cfg *config.Config, db *config.DB, model ai.Model, store media.Store, logger *zap.Logger) (Services, error) {
	if err := db.Postgres.WithContext(ctx).AutoMigrate(&models.User{}, &models.Follow{}, &models.Like{}); err != nil {
		return Services{}, fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("PostgreSQL auto-migrations completed")

	postRepo := repositories.NewMongoPostRepository(db.Mongo.Database(cfg.Mongo.Database))
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		return Services{}, fmt.Errorf("ensure post indexes: %w", err)
	}

	var userRepo repositories.UserRepository = repositories.NewPostgresUserRepository(db.Postgres)
	if db.Redis != nil {
		userRepo = repositories.NewCachedUserRepository(userRepo, db.Redis, cfg.Redis.TTL, logger)
		logger.Info("user cache enabled", zap.Duration("ttl", cfg.Redis.TTL))
	}
	followRepo := repositories.NewPostgresFollowRepository(db.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(db.Postgres)

	limits := services.ListLimits{Default: cfg.Follow.DefaultLimit, Max: cfg.Follow.MaxLimit}
	return Services{
		Users:   services.NewUserService(userRepo, logger),
		Follows: services.NewFollowService(userRepo, followRepo, postRepo, logger, limits),
		Posts:   services.NewPostService(postRepo, userRepo, likeRepo, logger),
		Feed:    services.NewFeedService(userRepo, followRepo, postRepo, likeRepo, logger),
		Content: ai.NewContentService(model, logger),
		Media:   media.NewService(store, logger),
	}, nil
}

// SetupRoutes configures all application routes
func SetupRoutes(e *echo.Echo, s Services, verifier middleware.IdentityVerifier, logger *zap.Logger) {
	e.GET("/health", handlers.HealthCheck)

	auth := handlers.Auth{
		Required: middleware.RequireIdentity(verifier),
		Optional: middleware.OptionalIdentity(verifier),
	}
	api := e.Group("/api/v1")

	handlers.NewUserHandler(s.Users).RegisterProfileRoutes(api, auth)
	handlers.NewFollowHandler(s.Follows).RegisterFollowRoutes(api, auth)
	handlers.NewPostHandler(s.Posts).RegisterPostRoutes(api, auth)
	handlers.NewFeedHandler(s.Feed).RegisterFeedRoutes(api, auth)
	handlers.NewAIHandler(s.Content).RegisterAIRoutes(api, auth)
	handlers.NewUploadHandler(s.Media).RegisterUploadRoutes(api, auth)

	logger.Info("routes configured", zap.Int("count", len(e.Routes())))
}
