package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/middleware"
	"github.com/pageza/recipe-api/backend/internal/repository"
	"github.com/pageza/recipe-api/backend/internal/router"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/storage"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New wires stores, services and routes into a server. rdb may be nil when
// redis is not configured.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, log *zap.Logger) (*Server, error) {
	images, err := newImageStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	tokens, err := service.NewTokenStore(cfg, db, rdb)
	if err != nil {
		return nil, err
	}
	if n, err := service.PurgeExpiredTokens(ctx, tokens); err != nil {
		log.Warn("failed to purge expired tokens", zap.Error(err))
	} else if n > 0 {
		log.Info("purged expired tokens", zap.Int64("count", n))
	}

	recipeRepo := repository.NewRecipeRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)

	users := service.NewUserService(db, log)
	engine := router.SetupRouter(router.Deps{
		Config:      cfg,
		Logger:      log,
		DB:          db,
		Redis:       rdb,
		Users:       users,
		Auth:        service.NewAuthService(users, tokens, log),
		Tags:        service.NewTagService(tagRepo, log),
		Ingredients: service.NewIngredientService(ingredientRepo, log),
		Recipes:     service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, images, log),
		Images:      service.NewImageService(recipeRepo, images, log),
	})

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           middleware.ErrorHandler(log)(engine),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log,
	}, nil
}

func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, error) {
	switch cfg.ImageBackend {
	case config.ImageBackendS3:
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(s3cfg), nil
	case config.ImageBackendLocal:
		return storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	default:
		return nil, fmt.Errorf("unknown image backend %q", cfg.ImageBackend)
	}
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
