package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/database"
	"github.com/pageza/recipe-api/backend/internal/logging"
	"github.com/pageza/recipe-api/backend/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.WaitForPostgres(ctx, cfg, logger, 30, time.Second); err != nil {
		logger.Fatal("database never became available", zap.Error(err))
	}

	// Initialize database
	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = database.NewRedisClient(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
	}

	srv, err := server.New(ctx, cfg, db, rdb, logger)
	if err != nil {
		logger.Fatal("failed to build server", zap.Error(err))
	}

	logger.Info("starting server", zap.String("env", string(cfg.Environment)), zap.String("addr", cfg.Addr()))
	if err := srv.Start(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
