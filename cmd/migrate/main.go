package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/database"
	"github.com/pageza/recipe-api/backend/internal/logging"
)

func main() {
	attempts := flag.Int("attempts", 30, "Number of times to try reaching the database")
	delay := flag.Duration("delay", time.Second, "Wait between attempts")
	waitOnly := flag.Bool("wait-only", false, "Only wait for the database, do not migrate")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	if err := database.WaitForPostgres(ctx, cfg, logger, *attempts, *delay); err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	if *waitOnly {
		return
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("migrations applied")
}
