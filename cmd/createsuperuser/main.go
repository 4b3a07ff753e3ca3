package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/database"
	"github.com/pageza/recipe-api/backend/internal/logging"
	"github.com/pageza/recipe-api/backend/internal/service"
)

func main() {
	email := flag.String("email", "", "Email address of the new superuser")
	password := flag.String("password", os.Getenv("SUPERUSER_PASSWORD"), "Password (defaults to $SUPERUSER_PASSWORD)")
	name := flag.String("name", "", "Display name")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	user, err := service.NewUserService(db, logger).CreateSuperuser(context.Background(), *email, *password, *name)
	if err != nil {
		logger.Fatal("failed to create superuser", zap.Error(err))
	}
	logger.Info("superuser created", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
}
