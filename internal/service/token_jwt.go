package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/types"
)

// JWTTokenStore issues signed HS256 tokens. Revoked token IDs are kept in
// the database until the token would have expired anyway.
type JWTTokenStore struct {
	secret []byte
	ttl    time.Duration
	db     *gorm.DB
	now    func() time.Time
}

func NewJWTTokenStore(secret string, ttl time.Duration, db *gorm.DB) *JWTTokenStore {
	return &JWTTokenStore{secret: []byte(secret), ttl: ttl, db: db, now: time.Now}
}

func (s *JWTTokenStore) Create(_ context.Context, userID uint) (string, error) {
	now := s.now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (s *JWTTokenStore) parse(token string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.ID == "" || claims.UserID == 0 {
		return nil, errInvalidToken
	}
	return claims, nil
}

func (s *JWTTokenStore) Validate(ctx context.Context, token string) (uint, error) {
	claims, err := s.parse(token)
	if err != nil {
		return 0, err
	}

	var revoked models.RevokedToken
	err = s.db.WithContext(ctx).Where("jti = ?", claims.ID).First(&revoked).Error
	if err == nil {
		return 0, errInvalidToken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return claims.UserID, nil
}

// Revoke records the token ID. Tokens that no longer parse need no entry.
func (s *JWTTokenStore) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}
	row := &models.RevokedToken{JTI: claims.ID, ExpiresAt: claims.ExpiresAt.Time}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
}

// PurgeExpired drops revocation entries for tokens past their expiry.
func (s *JWTTokenStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.RevokedToken{})
	return res.RowsAffected, res.Error
}
