package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisTokenPrefix = "auth:token:"

// RedisTokenStore keeps token digests in redis with a TTL.
type RedisTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTokenStore(client *redis.Client, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{client: client, ttl: ttl}
}

func (s *RedisTokenStore) Create(ctx context.Context, userID uint) (string, error) {
	token, err := newOpaqueToken()
	if err != nil {
		return "", err
	}
	key := redisTokenPrefix + tokenDigest(token)
	if err := s.client.Set(ctx, key, strconv.FormatUint(uint64(userID), 10), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

func (s *RedisTokenStore) Validate(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, errInvalidToken
	}
	val, err := s.client.Get(ctx, redisTokenPrefix+tokenDigest(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, errInvalidToken
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up token: %w", err)
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, errInvalidToken
	}
	return uint(id), nil
}

func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, redisTokenPrefix+tokenDigest(token)).Err()
}
