package config

// Redis backs the webhook rate limiter and the layout response cache.  Both
// degrade to pass-through when the client is nil, so a Redis outage at
// startup never blocks user sync.

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a Redis client from the environment:
//   REDIS_URL – redis:// or rediss:// URL (takes precedence)
//   REDIS_HOST, REDIS_PORT – used when no URL is set (default localhost:6379)
//   REDIS_PASSWORD, REDIS_DB – optional
//   REDIS_TLS – "true" or "1" enables TLS for host/port connections
// It returns nil when the server cannot be reached.
func NewRedisClient() *redis.Client {
	var opts *redis.Options
	if url := envStr("REDIS_URL", ""); url != "" {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			slog.Warn("redis: invalid REDIS_URL, caching and rate limiting disabled", "error", err)
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     net.JoinHostPort(envStr("REDIS_HOST", "localhost"), envStr("REDIS_PORT", "6379")),
			Password: envStr("REDIS_PASSWORD", ""),
			DB:       envInt("REDIS_DB", 0),
		}
		if t := envStr("REDIS_TLS", ""); strings.EqualFold(t, "true") || t == "1" {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis: unreachable, caching and rate limiting disabled", "addr", opts.Addr, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}
