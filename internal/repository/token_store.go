package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/spms-api/pkg/cache"
)

// TokenStore records revoked access tokens by their jti until they expire.
// A nil client turns every operation into a no-op.
type TokenStore struct {
	client *redis.Client
	prefix string
}

// NewTokenStore constructs a TokenStore whose keys live under prefix.
func NewTokenStore(client *redis.Client, prefix string) *TokenStore {
	return &TokenStore{client: client, prefix: prefix}
}

func (s *TokenStore) key(tokenID string) string {
	return cache.Key(s.prefix, "revoked", tokenID)
}

// Revoke marks the token id as revoked for ttl.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if s == nil || s.client == nil || tokenID == "" || ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id was revoked.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s == nil || s.client == nil || tokenID == "" {
		return false, nil
	}
	err := s.client.Get(ctx, s.key(tokenID)).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	return false, fmt.Errorf("check revoked token: %w", err)
}
