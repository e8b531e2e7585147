package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/anonto42/inkwell/backend/internal/ai"
	"github.com/anonto42/inkwell/backend/internal/media"
	"github.com/anonto42/inkwell/backend/internal/middleware"
	"github.com/anonto42/inkwell/backend/internal/router"
	"github.com/anonto42/inkwell/backend/pkg/config"
	"github.com/anonto42/inkwell/backend/pkg/firebase"
	"github.com/anonto42/inkwell/backend/validators"
	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	verifier, err := buildVerifier(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize auth", zap.Error(err))
	}

	model, err := ai.NewGeminiModel(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
	if err != nil {
		logger.Fatal("failed to initialize gemini client", zap.Error(err))
	}

	store, err := buildMediaStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize media storage", zap.Error(err))
	}

	svcs, err := router.BuildServices(ctx, cfg, db, model, store, logger)
	if err != nil {
		logger.Fatal("failed to build services", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, logger)
	router.SetupRoutes(e, svcs, verifier, logger)

	go func() {
		logger.Info("listening", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	logger.Info("bye")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func buildVerifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) (middleware.IdentityVerifier, error) {
	switch cfg.Auth.Provider {
	case config.AuthProviderJWT:
		logger.Info("using shared-secret identity tokens")
		return middleware.NewJWTVerifier(cfg.Auth.JWTSecret), nil
	default:
		app, err := firebase.InitFirebase(ctx, cfg.Auth.FirebaseCredentialsPath, logger)
		if err != nil {
			return nil, err
		}
		return middleware.NewFirebaseVerifier(app.AuthClient), nil
	}
}

// buildMediaStore returns nil when no media provider is configured.
func buildMediaStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (media.Store, error) {
	switch cfg.Media.Provider {
	case config.MediaProviderCloudinary:
		if cfg.Media.CloudinaryURL == "" {
			logger.Warn("media.cloudinary_url not set, uploads disabled")
			return nil, nil
		}
		logger.Info("using cloudinary media storage", zap.String("folder", cfg.Media.Folder))
		return media.NewCloudinaryStore(cfg.Media.CloudinaryURL, cfg.Media.Folder)
	case config.MediaProviderS3:
		awsCfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.Media.S3Region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Media.S3Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Media.S3Endpoint)
				o.UsePathStyle = true
			}
		})
		logger.Info("using s3 media storage", zap.String("bucket", cfg.Media.S3Bucket), zap.String("region", cfg.Media.S3Region))
		return media.NewS3Store(client, cfg.Media.S3Bucket, cfg.Media.S3PublicURL)
	}
	logger.Info("media.provider not set, uploads disabled")
	return nil, nil
}
