package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `yaml:"-"`

	// Server configuration
	ServerHost string `yaml:"server_host"`
	ServerPort string `yaml:"server_port"`

	// Database configuration
	DBDriver   string `yaml:"db_driver"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_ssl_mode"`
	SQLitePath string `yaml:"sqlite_path"`

	// Redis configuration
	RedisURL      string `yaml:"redis_url"`
	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// Token configuration
	JWTSecret      string        `yaml:"jwt_secret"`
	TokenBackend   string        `yaml:"token_backend"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
	TokenRateLimit int           `yaml:"token_rate_limit"`

	// Media configuration
	ImageBackend string `yaml:"image_backend"`
	MediaRoot    string `yaml:"media_root"`
	MediaURL     string `yaml:"media_url"`
	S3BucketName string `yaml:"s3_bucket_name"`
	AWSRegion    string `yaml:"aws_region"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// Token backends
const (
	TokenBackendDB    = "db"
	TokenBackendRedis = "redis"
	TokenBackendJWT   = "jwt"
)

// Image backends
const (
	ImageBackendLocal = "local"
	ImageBackendS3    = "s3"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// LoadConfig builds a Config from defaults, an optional YAML file
// (CONFIG_FILE), environment variables and Docker secrets, in that order.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := defaultConfig(env)

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFileConfig(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := loadEnvConfig(cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}
	loadSecretConfig(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaultConfig(env Environment) *Config {
	cfg := &Config{
		Environment:        env,
		ServerHost:         "0.0.0.0",
		ServerPort:         "8080",
		DBDriver:           DriverSQLite,
		DBPort:             "5432",
		DBSSLMode:          "disable",
		SQLitePath:         "recipe.db",
		RedisPort:          "6379",
		TokenBackend:       TokenBackendDB,
		TokenTTL:           24 * time.Hour,
		TokenRateLimit:     20,
		ImageBackend:       ImageBackendLocal,
		MediaRoot:          "media",
		MediaURL:           "/media",
		CORSAllowedOrigins: []string{"http://localhost:5173"},
	}
	if env == Production || env == CI {
		cfg.DBDriver = DriverPostgres
	}
	return cfg
}

func loadFileConfig(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// loadEnvConfig overrides cfg with any environment variable that is set
func loadEnvConfig(cfg *Config) error {
	strs := map[string]*string{
		"SERVER_HOST":    &cfg.ServerHost,
		"SERVER_PORT":    &cfg.ServerPort,
		"DB_DRIVER":      &cfg.DBDriver,
		"DB_HOST":        &cfg.DBHost,
		"DB_PORT":        &cfg.DBPort,
		"DB_USER":        &cfg.DBUser,
		"DB_PASSWORD":    &cfg.DBPassword,
		"DB_NAME":        &cfg.DBName,
		"DB_SSL_MODE":    &cfg.DBSSLMode,
		"SQLITE_PATH":    &cfg.SQLitePath,
		"REDIS_URL":      &cfg.RedisURL,
		"REDIS_HOST":     &cfg.RedisHost,
		"REDIS_PORT":     &cfg.RedisPort,
		"REDIS_PASSWORD": &cfg.RedisPassword,
		"JWT_SECRET":     &cfg.JWTSecret,
		"TOKEN_BACKEND":  &cfg.TokenBackend,
		"IMAGE_BACKEND":  &cfg.ImageBackend,
		"MEDIA_ROOT":     &cfg.MediaRoot,
		"MEDIA_URL":      &cfg.MediaURL,
		"S3_BUCKET_NAME": &cfg.S3BucketName,
		"AWS_REGION":     &cfg.AWSRegion,
	}
	for key, dst := range strs {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.RedisDB = n
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}
	if v := os.Getenv("TOKEN_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TOKEN_RATE_LIMIT: %w", err)
		}
		cfg.TokenRateLimit = n
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}

	return nil
}

// loadSecretConfig fills sensitive values that were not provided by the
// environment from Docker secrets
func loadSecretConfig(cfg *Config) {
	if cfg.DBUser == "" {
		cfg.DBUser = readSecret("db_user")
	}
	if cfg.DBPassword == "" {
		cfg.DBPassword = readSecret("db_password")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = readSecret("jwt_secret")
	}
	if cfg.RedisPassword == "" {
		cfg.RedisPassword = readSecret("redis_password")
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN returns the connection string for the postgres driver
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisEnabled reports whether a redis server has been configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}
