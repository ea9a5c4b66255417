package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/spms-api/pkg/config"
)

func TestNewRedisDisabled(t *testing.T) {
	client, err := NewRedis(config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestOptions(t *testing.T) {
	opts := Options(config.RedisConfig{Host: "cache", Port: 6380, DB: 2, PoolSize: 25})
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 25, opts.PoolSize)

	assert.Zero(t, Options(config.RedisConfig{Host: "cache", Port: 6379}).PoolSize)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "spms:revoked:abc", Key("spms:", "revoked", "abc"))
	assert.Equal(t, "revoked:abc", Key("", "revoked", "", "abc"))
}
