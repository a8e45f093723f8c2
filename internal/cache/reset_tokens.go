// Package cache holds short-lived state kept in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheNotAvailable = errors.New("cache not available")
	ErrTokenNotFound     = errors.New("reset token not found or expired")
)

const resetPrefix = "pwreset:"

// ResetTokenStore maps single-use password reset tokens to account IDs.
// Only the SHA-256 of a token is ever written to Redis.
type ResetTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResetTokenStore(client *redis.Client, ttl time.Duration) *ResetTokenStore {
	return &ResetTokenStore{client: client, ttl: ttl}
}

// NewClient parses a redis:// URL and verifies the server answers.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (s *ResetTokenStore) key(token string) string {
	return fmt.Sprintf("%s%x", resetPrefix, sha256.Sum256([]byte(token)))
}

// Save stores token for accountID with the configured TTL.
func (s *ResetTokenStore) Save(ctx context.Context, token string, accountID uuid.UUID) error {
	if s == nil || s.client == nil {
		return ErrCacheNotAvailable
	}
	return s.client.Set(ctx, s.key(token), accountID.String(), s.ttl).Err()
}

// Consume returns the account a token belongs to and deletes it in the same round trip.
func (s *ResetTokenStore) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	if s == nil || s.client == nil {
		return uuid.Nil, ErrCacheNotAvailable
	}
	val, err := s.client.GetDel(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrTokenNotFound
		}
		return uuid.Nil, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrTokenNotFound
	}
	return id, nil
}

// Ping reports whether Redis is reachable. Used by the health check.
func (s *ResetTokenStore) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return ErrCacheNotAvailable
	}
	return s.client.Ping(ctx).Err()
}
