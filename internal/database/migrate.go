package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/internal/models"
)

// Migrate brings the schema up to date with the models
func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running migrations", zap.String("dialect", db.Dialector.Name()))
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
