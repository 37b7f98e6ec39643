package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/config"
)

// Client wraps a go-redis client for one host of a cluster descriptor.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a client for the primary host of cluster.
func NewClient(cluster config.RedisCluster) (*Client, error) {
	host, ok := cluster.Primary()
	if !ok {
		return nil, errors.New("redis cluster has no hosts")
	}
	return NewHostClient(host), nil
}

// NewHostClient creates a client for a single cluster host.
func NewHostClient(host config.RedisHost) *Client {
	opts := &redis.Options{
		Addr: host.Addr(),
		DB:   host.DB,
	}
	if host.Password != nil {
		opts.Password = *host.Password
	}
	return &Client{rdb: redis.NewClient(opts)}
}

// Ping verifies the Redis connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Options returns the connection options the client was built with.
func (c *Client) Options() *redis.Options {
	return c.rdb.Options()
}
