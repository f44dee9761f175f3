package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/satvik-sharma-05/movieBooking/internal/config"
	"github.com/satvik-sharma-05/movieBooking/internal/database"
	"github.com/satvik-sharma-05/movieBooking/internal/handler"
	"github.com/satvik-sharma-05/movieBooking/internal/identity"
	"github.com/satvik-sharma-05/movieBooking/internal/middleware"
	"github.com/satvik-sharma-05/movieBooking/internal/queue"
	"github.com/satvik-sharma-05/movieBooking/internal/repository"
	"github.com/satvik-sharma-05/movieBooking/internal/router"
	"github.com/satvik-sharma-05/movieBooking/internal/usersync"
	"github.com/satvik-sharma-05/movieBooking/internal/webhook"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger := newLogger(os.Getenv("APP_ENV"))
	slog.SetDefault(logger)

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, checks, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("store: open failed", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	verifier, err := webhook.NewVerifier(cfg.WebhookSecret)
	if err != nil {
		logger.Error("webhook: bad signing secret", "error", err)
		os.Exit(1)
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	profiles := identity.NewClient(cfg.ClerkAPIURL, cfg.ClerkSecretKey, cfg.Sync.IdentityTimeout)
	pipeline := usersync.New(store, profiles, cfg.Sync, logger)

	var publisher handler.EventPublisher
	if cfg.PipelineMode == config.PipelineQueue {
		pub := queue.NewPublisher(cfg.AMQPURL, logger)
		defer pub.Close()
		publisher = pub

		consumer := queue.NewConsumer(cfg.AMQPURL, pipeline, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("queue: consumer stopped", "error", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewAppValidator()
	e.Use(echomw.Recover())
	e.Use(requestLogger(logger))

	router.RegisterRoutes(e, &handler.HealthHandler{Checks: checks})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	router.RegisterWebhooks(e,
		handler.NewWebhookHandler(pipeline, publisher, verifier, logger),
		middleware.RateLimit(config.LoadRateLimitConfig(), rdb, logger))
	router.RegisterSelection(e,
		handler.NewSelectionHandler(),
		middleware.ResponseCache(config.LoadCacheConfig(), rdb, logger))
	router.RegisterAdmin(e, handler.NewAdminHandler(pipeline, logger), cfg.JWTSecret)

	go func() {
		addr := ":" + cfg.Port
		logger.Info("listening", "addr", addr, "env", cfg.Env, "store", cfg.StoreDriver, "pipeline", cfg.PipelineMode)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("stopped")
}

func newLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == "dev" || env == "development" {
		opts.Level = slog.LevelDebug
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				logger.Error("request", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	})
}

// openStore connects the configured backend, prepares its indexes or schema
// and returns it with a health check and a close func.
func openStore(ctx context.Context, cfg config.Config) (usersync.UserStore, map[string]handler.Pinger, func(), error) {
	checks := map[string]handler.Pinger{}
	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch cfg.StoreDriver {
	case config.StoreMySQL:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, nil, nil, err
		}
		repo := repository.NewUserRepo(db)
		if err := repo.EnsureSchema(initCtx); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		checks["store"] = db.PingContext
		return repo, checks, func() { _ = db.Close() }, nil

	default:
		client, db, err := database.OpenMongo(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}
		repo := repository.NewMongoUserRepo(db)
		if err := repo.EnsureIndexes(initCtx); err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		checks["store"] = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
		return repo, checks, closeFn, nil
	}
}
