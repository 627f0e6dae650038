package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizfilings/internal/platform/config"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("no url means not configured", func(t *testing.T) {
		client, err := New(ctx, config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("connects and reports healthy", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client, err := New(ctx, config.RedisConfig{URL: "redis://" + mr.Addr(), PoolSize: 2})
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		assert.NoError(t, client.Health(ctx))
	})

	t.Run("rejects a bad url", func(t *testing.T) {
		_, err := New(ctx, config.RedisConfig{URL: "://nope"})
		assert.ErrorContains(t, err, "parse redis URL")
	})
}
