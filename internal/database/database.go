package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pageza/recipe-api/backend/config"
)

// Open connects gorm to the configured database and applies pool settings
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		log.Info("connecting to database",
			zap.String("driver", cfg.DBDriver),
			zap.String("host", cfg.DBHost),
			zap.String("port", cfg.DBPort),
			zap.String("user", cfg.DBUser),
		)
		dialector = postgres.Open(cfg.PostgresDSN())
	case config.DriverSQLite:
		log.Info("connecting to database", zap.String("driver", cfg.DBDriver), zap.String("path", cfg.SQLitePath))
		dialector = sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database handle: %w", err)
	}
	if cfg.DBDriver == config.DriverPostgres {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	} else {
		// sqlite serialises writers; one connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info("successfully connected to database")
	return db, nil
}

// WaitForPostgres blocks until the postgres server accepts connections or
// the attempts are used up. It is a no-op for other drivers.
func WaitForPostgres(ctx context.Context, cfg *config.Config, log *zap.Logger, attempts int, delay time.Duration) error {
	if cfg.DBDriver != config.DriverPostgres {
		return nil
	}

	conn, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer conn.Close()

	log.Info("waiting for database...")
	for i := 1; i <= attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, delay)
		err = conn.PingContext(pingCtx)
		cancel()
		if err == nil {
			log.Info("database is available")
			return nil
		}

		log.Warn("database unavailable, waiting", zap.Int("attempt", i), zap.Duration("delay", delay), zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("database unavailable after %d attempts: %w", attempts, err)
}

// HealthCheck checks if the database is accessible
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
