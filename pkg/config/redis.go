package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

const defaultRedisPort = 6379

// RedisHost is one entry of a Redis cluster descriptor.
type RedisHost struct {
	Host string
	// Port is 0 when the URL carries none
	Port     int
	Password *string
	DB       int
}

// RedisCluster is the descriptor Sentry reads from redis.clusters.
type RedisCluster struct {
	Hosts map[int]RedisHost
}

// ParseRedisCluster derives a single-host cluster from a Redis URL. The
// database index is always 0; any path in the URL is ignored.
func ParseRedisCluster(rawURL string) (RedisCluster, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return RedisCluster{}, err
	}
	if u.Host == "" {
		return RedisCluster{}, errors.New("missing host")
	}

	host := RedisHost{
		Host: strings.ToLower(u.Hostname()),
		DB:   0,
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return RedisCluster{}, fmt.Errorf("invalid port %q: %w", p, err)
		}
		host.Port = port
	}
	if u.User != nil {
		if password, ok := u.User.Password(); ok {
			host.Password = &password
		}
	}

	return RedisCluster{Hosts: map[int]RedisHost{0: host}}, nil
}

// Addr returns host:port, falling back to the standard Redis port.
func (h RedisHost) Addr() string {
	port := h.Port
	if port == 0 {
		port = defaultRedisPort
	}
	return net.JoinHostPort(h.Host, strconv.Itoa(port))
}

// Primary returns the first host of the cluster.
func (c RedisCluster) Primary() (RedisHost, bool) {
	h, ok := c.Hosts[0]
	return h, ok
}
