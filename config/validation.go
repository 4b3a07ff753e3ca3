package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable for its environment
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "is required"})
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		for field, value := range map[string]string{
			"DB_HOST": cfg.DBHost,
			"DB_PORT": cfg.DBPort,
			"DB_USER": cfg.DBUser,
			"DB_NAME": cfg.DBName,
		} {
			if value == "" {
				errs = append(errs, ValidationError{field, "is required for the postgres driver"})
			}
		}
		if cfg.DBPassword == "" && (cfg.Environment == Production || cfg.Environment == CI) {
			errs = append(errs, ValidationError{"DB_PASSWORD", "db_password secret is required"})
		}
	case DriverSQLite:
		if cfg.Environment == Production {
			errs = append(errs, ValidationError{"DB_DRIVER", "sqlite is not supported in production"})
		}
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{"SQLITE_PATH", "is required for the sqlite driver"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unknown driver %q", cfg.DBDriver)})
	}

	switch cfg.TokenBackend {
	case TokenBackendDB:
	case TokenBackendRedis:
		if !cfg.RedisEnabled() {
			errs = append(errs, ValidationError{"REDIS_URL", "redis is required for the redis token backend"})
		}
	case TokenBackendJWT:
		if cfg.JWTSecret == "" {
			errs = append(errs, ValidationError{"JWT_SECRET", "jwt_secret secret is required for the jwt token backend"})
		}
	default:
		errs = append(errs, ValidationError{"TOKEN_BACKEND", fmt.Sprintf("unknown backend %q", cfg.TokenBackend)})
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, ValidationError{"TOKEN_TTL", "must be positive"})
	}

	switch cfg.ImageBackend {
	case ImageBackendLocal:
		if cfg.MediaRoot == "" {
			errs = append(errs, ValidationError{"MEDIA_ROOT", "is required for the local image backend"})
		}
	case ImageBackendS3:
		if cfg.S3BucketName == "" {
			errs = append(errs, ValidationError{"S3_BUCKET_NAME", "is required for the s3 image backend"})
		}
	default:
		errs = append(errs, ValidationError{"IMAGE_BACKEND", fmt.Sprintf("unknown backend %q", cfg.ImageBackend)})
	}

	if len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
	}

	return nil
}
