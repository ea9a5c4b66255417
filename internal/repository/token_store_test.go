package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStoreWithoutRedis(t *testing.T) {
	store := NewTokenStore(nil, "spms")

	require.NoError(t, store.Revoke(context.Background(), "jti-1", time.Hour))
	revoked, err := store.IsRevoked(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	var missing *TokenStore
	revoked, err = missing.IsRevoked(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenStoreKey(t *testing.T) {
	assert.Equal(t, "spms:revoked:jti-1", NewTokenStore(nil, "spms").key("jti-1"))
}
