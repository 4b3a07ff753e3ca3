package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/apperrors"
	"github.com/pageza/recipe-api/backend/internal/models"
)

type AuthService struct {
	users IUserService
	store TokenStore
	log   *zap.Logger
}

func NewAuthService(users IUserService, store TokenStore, log *zap.Logger) *AuthService {
	return &AuthService{users: users, store: store, log: log}
}

// NewTokenStore builds the token store selected by cfg.TokenBackend. The
// redis client may be nil unless the redis backend is selected.
func NewTokenStore(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (TokenStore, error) {
	switch cfg.TokenBackend {
	case config.TokenBackendDB:
		return NewDBTokenStore(db, cfg.TokenTTL), nil
	case config.TokenBackendRedis:
		if rdb == nil {
			return nil, errors.New("redis token backend requires a redis client")
		}
		return NewRedisTokenStore(rdb, cfg.TokenTTL), nil
	case config.TokenBackendJWT:
		return NewJWTTokenStore(cfg.JWTSecret, cfg.TokenTTL, db), nil
	default:
		return nil, fmt.Errorf("unknown token backend %q", cfg.TokenBackend)
	}
}

// IssueToken checks the credentials and returns a new bearer token.
func (s *AuthService) IssueToken(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.CheckCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			s.log.Info("token request rejected")
		}
		return "", err
	}

	token, err := s.store.Create(ctx, user.ID)
	if err != nil {
		return "", apperrors.Internal(err, "failed to issue token")
	}
	s.log.Info("token issued", zap.Uint("user_id", user.ID))
	return token, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.store.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			return nil, err
		}
		return nil, apperrors.Internal(err, "failed to validate token")
	}

	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Unauthorized("User inactive or deleted.")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("User inactive or deleted.")
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.store.Revoke(ctx, token); err != nil {
		return apperrors.Internal(err, "failed to revoke token")
	}
	return nil
}

// PurgeExpiredTokens removes expired entries when the store keeps any.
func PurgeExpiredTokens(ctx context.Context, store TokenStore) (int64, error) {
	p, ok := store.(interface {
		PurgeExpired(ctx context.Context) (int64, error)
	})
	if !ok {
		return 0, nil
	}
	return p.PurgeExpired(ctx)
}
