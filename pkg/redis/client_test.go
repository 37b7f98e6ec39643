package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/config"
)

func TestNewClient(t *testing.T) {
	t.Run("uses the primary host", func(t *testing.T) {
		cluster, err := config.ParseRedisCluster("redis://:pw@cache.internal:6380/4")
		require.NoError(t, err)

		client, err := NewClient(cluster)
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		opts := client.Options()
		assert.Equal(t, "cache.internal:6380", opts.Addr)
		assert.Equal(t, "pw", opts.Password)
		assert.Equal(t, 0, opts.DB)
	})

	t.Run("defaults the port", func(t *testing.T) {
		cluster, err := config.ParseRedisCluster("redis://cache")
		require.NoError(t, err)

		client, err := NewClient(cluster)
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		assert.Equal(t, "cache:6379", client.Options().Addr)
		assert.Empty(t, client.Options().Password)
	})

	t.Run("empty cluster", func(t *testing.T) {
		_, err := NewClient(config.RedisCluster{})
		assert.Error(t, err)
	})
}
