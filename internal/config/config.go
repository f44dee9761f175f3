package config // package config loads application configuration from environment variables

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers and pipeline modes accepted by Load.
const (
	StoreMongo = "mongo"
	StoreMySQL = "mysql"

	PipelineInline = "inline" // webhook runs the sync pipeline in the request
	PipelineQueue  = "queue"  // webhook publishes to RabbitMQ, the consumer runs the pipeline
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	StoreDriver   string // "mongo" or "mysql"
	MongoURI      string // MONGODB_URI, required for mongo
	MongoDatabase string // database holding the users collection
	DBUser        string // mysql username
	DBPass        string // mysql password (optional)
	DBHost        string // mysql host address
	DBPort        string // mysql port number
	DBName        string // mysql database name

	ClerkSecretKey string // identity API secret key
	ClerkAPIURL    string // identity API base URL
	WebhookSecret  string // whsec_ signing secret of the webhook endpoint
	JWTSecret      string // secret used to sign admin access tokens

	PipelineMode string // "inline" or "queue"
	AMQPURL      string // RabbitMQ URL, required in queue mode

	Sync SyncConfig
}

// SyncConfig bounds the I/O done for a single webhook delivery.
type SyncConfig struct {
	IdentityTimeout time.Duration // per identity API call
	StoreTimeout    time.Duration // per store write
	MaxAttempts     int           // attempts per retryable step, including the first
	Backoff         time.Duration // delay before the second attempt, doubled afterwards
	MaxBackoff      time.Duration // upper bound for a single delay
}

// Load reads configuration values from the environment.  Missing required
// variables make the process exit, so it never starts half configured.
func Load() Config {
	cfg, err := Parse(os.LookupEnv)
	if err != nil {
		slog.Error("config: refusing to start", "error", err)
		os.Exit(1)
	}
	return cfg
}

// Parse builds a Config from lookup.  It reports every missing or malformed
// variable at once.
func Parse(lookup func(string) (string, bool)) (Config, error) {
	e := env{lookup: lookup}
	cfg := Config{
		Env:            e.must("APP_ENV"),
		Port:           e.must("APP_PORT"),
		StoreDriver:    strings.ToLower(e.str("STORE_DRIVER", StoreMongo)),
		ClerkSecretKey: e.must("CLERK_SECRET_KEY"),
		ClerkAPIURL:    strings.TrimRight(e.str("CLERK_API_URL", "https://api.clerk.com/v1"), "/"),
		WebhookSecret:  e.must("CLERK_WEBHOOK_SECRET"),
		JWTSecret:      e.must("JWT_SECRET"),
		PipelineMode:   strings.ToLower(e.str("PIPELINE_MODE", PipelineInline)),
		Sync: SyncConfig{
			IdentityTimeout: e.dur("IDENTITY_TIMEOUT", 5*time.Second),
			StoreTimeout:    e.dur("STORE_TIMEOUT", 5*time.Second),
			MaxAttempts:     e.integer("SYNC_MAX_ATTEMPTS", 3),
			Backoff:         e.dur("SYNC_BACKOFF", 200*time.Millisecond),
			MaxBackoff:      e.dur("SYNC_MAX_BACKOFF", 5*time.Second),
		},
	}

	switch cfg.StoreDriver {
	case StoreMongo:
		cfg.MongoURI = e.must("MONGODB_URI")
		cfg.MongoDatabase = e.str("MONGODB_DATABASE", "movie_booking")
	case StoreMySQL:
		cfg.DBUser = e.must("DB_USER")
		cfg.DBPass = e.str("DB_PASS", "")
		cfg.DBHost = e.must("DB_HOST")
		cfg.DBPort = e.must("DB_PORT")
		cfg.DBName = e.must("DB_NAME")
	default:
		e.fail("STORE_DRIVER must be %q or %q, got %q", StoreMongo, StoreMySQL, cfg.StoreDriver)
	}

	switch cfg.PipelineMode {
	case PipelineInline:
	case PipelineQueue:
		cfg.AMQPURL = e.str("RABBITMQ_URL", e.str("AMQP_URL", ""))
		if cfg.AMQPURL == "" {
			e.fail("missing required env var: RABBITMQ_URL")
		}
	default:
		e.fail("PIPELINE_MODE must be %q or %q, got %q", PipelineInline, PipelineQueue, cfg.PipelineMode)
	}

	if cfg.Sync.IdentityTimeout <= 0 {
		e.fail("IDENTITY_TIMEOUT must be positive, got %s", cfg.Sync.IdentityTimeout)
	}
	if cfg.Sync.StoreTimeout <= 0 {
		e.fail("STORE_TIMEOUT must be positive, got %s", cfg.Sync.StoreTimeout)
	}
	if cfg.Sync.Backoff < 0 {
		cfg.Sync.Backoff = 0
	}
	if cfg.Sync.MaxAttempts < 1 {
		cfg.Sync.MaxAttempts = 1
	}
	if cfg.Sync.MaxBackoff < cfg.Sync.Backoff {
		cfg.Sync.MaxBackoff = cfg.Sync.Backoff
	}

	if len(e.problems) > 0 {
		return Config{}, fmt.Errorf("%s", strings.Join(e.problems, "; "))
	}
	return cfg, nil
}

// env reads variables through lookup and collects problems instead of
// exiting on the first one.
type env struct {
	lookup   func(string) (string, bool)
	problems []string
}

func (e *env) fail(format string, args ...any) {
	e.problems = append(e.problems, fmt.Sprintf(format, args...))
}

// must retrieves the value of a required variable.
func (e *env) must(key string) string {
	v, ok := e.lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		e.fail("missing required env var: %s", key)
		return ""
	}
	return v
}

func (e *env) str(key, def string) string {
	if v, ok := e.lookup(key); ok && v != "" {
		return v
	}
	return def
}

func (e *env) integer(key string, def int) int {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail("invalid int for %s: %q", key, v)
		return def
	}
	return n
}

func (e *env) dur(key string, def time.Duration) time.Duration {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail("invalid duration for %s: %q", key, v)
		return def
	}
	return d
}
