package config

import "time"

// RateLimitConfig configures the token bucket in front of the webhook
// endpoints.  Buckets are keyed by client IP and route; a provider retry
// storm drains its own bucket without starving other callers.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int           // burst size
	RefillTokens   int           // tokens added per interval
	RefillInterval time.Duration // refill period
	TTL            time.Duration // idle bucket expiry
	Prefix         string        // redis key prefix
}

func LoadRateLimitConfig() RateLimitConfig {
	c := RateLimitConfig{
		Enabled:        envBool("WEBHOOK_RATE_ENABLED", true),
		Capacity:       envInt("WEBHOOK_RATE_CAPACITY", 120),
		RefillTokens:   envInt("WEBHOOK_RATE_REFILL_TOKENS", 2),
		RefillInterval: envDur("WEBHOOK_RATE_REFILL_INTERVAL", time.Second),
		TTL:            envDur("WEBHOOK_RATE_TTL", 10*time.Minute),
		Prefix:         envStr("WEBHOOK_RATE_PREFIX", "rl:webhook"),
	}
	if c.Capacity < 1 {
		c.Capacity = 1
	}
	if c.RefillTokens < 1 {
		c.RefillTokens = 1
	}
	if c.RefillInterval <= 0 {
		c.RefillInterval = time.Second
	}
	// a bucket must outlive a full refill cycle or it resets to full capacity
	if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
		c.TTL = minTTL
	}
	return c
}
