package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/internal/apperrors"
	"github.com/pageza/recipe-api/backend/internal/models"
)

var errInvalidToken = apperrors.Unauthorized("Invalid token.")

// newOpaqueToken returns a random 40 character hex key.
func newOpaqueToken() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// tokenDigest is the form an opaque token is stored under.
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// DBTokenStore keeps token digests in the database.
type DBTokenStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewDBTokenStore(db *gorm.DB, ttl time.Duration) *DBTokenStore {
	return &DBTokenStore{db: db, ttl: ttl, now: time.Now}
}

func (s *DBTokenStore) Create(ctx context.Context, userID uint) (string, error) {
	token, err := newOpaqueToken()
	if err != nil {
		return "", err
	}
	row := &models.AuthToken{
		Digest:    tokenDigest(token),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

func (s *DBTokenStore) Validate(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, errInvalidToken
	}
	var row models.AuthToken
	err := s.db.WithContext(ctx).
		Where("digest = ? AND expires_at > ?", tokenDigest(token), s.now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, errInvalidToken
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up token: %w", err)
	}
	return row.UserID, nil
}

func (s *DBTokenStore) Revoke(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).
		Where("digest = ?", tokenDigest(token)).
		Delete(&models.AuthToken{}).Error
}

// PurgeExpired deletes expired tokens and returns how many were removed.
func (s *DBTokenStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.AuthToken{})
	return res.RowsAffected, res.Error
}
