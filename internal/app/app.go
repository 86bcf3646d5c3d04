package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/samuelcg20/Apt/internal/application"
	"github.com/samuelcg20/Apt/internal/auth"
	"github.com/samuelcg20/Apt/internal/config"
	"github.com/samuelcg20/Apt/internal/db"
	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/events"
	"github.com/samuelcg20/Apt/internal/fixture"
	"github.com/samuelcg20/Apt/internal/health"
	"github.com/samuelcg20/Apt/internal/logger"
	"github.com/samuelcg20/Apt/internal/maintenance"
	"github.com/samuelcg20/Apt/internal/metrics"
	"github.com/samuelcg20/Apt/internal/middleware"
	"github.com/samuelcg20/Apt/internal/profile"
	"github.com/samuelcg20/Apt/internal/ratelimit"
	"github.com/samuelcg20/Apt/internal/repository/memory"
	"github.com/samuelcg20/Apt/internal/repository/postgres"
	"github.com/samuelcg20/Apt/internal/review"
	"github.com/samuelcg20/Apt/internal/task"
	"github.com/samuelcg20/Apt/internal/telemetry"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config    *config.Config
	router    chi.Router
	server    *http.Server
	logger    *slog.Logger
	telemetry *telemetry.Telemetry

	// released in reverse order on Shutdown
	closers []func(ctx context.Context) error
}

type Option func(*App)

// WithLogger replaces the logger built from the log config
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	app := &App{
		config: cfg,
		router: chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.logger == nil {
		app.logger = logger.NewWithServiceContext(logger.Options{
			Env:    cfg.Env,
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
		}, ServiceName, Version)
	}

	app.logger.Info("initializing application", "env", cfg.Env, "storage", cfg.Storage.Driver, "events", cfg.Events.Driver)

	if err := app.build(ctx); err != nil {
		_ = app.release(context.Background())
		return nil, err
	}

	app.logger.Info("application initialized successfully")
	return app, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.config

	tel, err := telemetry.Init(ctx, telemetry.Options{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		Interval:       cfg.Telemetry.Interval,
		ServiceName:    ServiceName,
		ServiceVersion: Version,
		Env:            cfg.Env,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	a.telemetry = tel
	a.closers = append(a.closers, func(ctx context.Context) error { return tel.Shutdown(ctx, a.logger) })
	m := tel.Metrics

	stores, err := a.openStores(ctx, m)
	if err != nil {
		return err
	}
	checks := []health.Check{{Name: "store", Ping: stores.Ping}}

	limiter, check := a.openLimiter()
	if check != nil {
		checks = append(checks, *check)
	}
	loginRule := ratelimit.Rule{Name: "login", Limit: cfg.RateLimit.LoginLimit, Window: cfg.RateLimit.LoginWindow}
	applyRule := ratelimit.Rule{Name: "apply", Limit: cfg.RateLimit.ApplyLimit, Window: cfg.RateLimit.ApplyWindow}

	publisher, err := events.NewPublisher(cfg.Events, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize events publisher: %w", err)
	}
	emitter := events.NewEmitter(publisher, cfg.Events.Driver, a.logger, m)
	a.closers = append(a.closers, func(context.Context) error { return emitter.Close() })

	gate, err := maintenance.New(cfg.Maintenance, cfg.Storage.Driver)
	if err != nil {
		return fmt.Errorf("failed to configure maintenance gate: %w", err)
	}
	if disabled := gate.Disabled(); len(disabled) > 0 {
		a.logger.Info("write operations disabled", "operations", disabled)
	}

	codec := auth.NewTokenCodec(cfg.Auth)
	authenticate := auth.Authenticate(codec, stores.Users, a.logger)

	a.router.Use(chimw.RequestID)
	a.router.Use(middleware.RequestLogger(a.logger))
	a.router.Use(middleware.Recover(a.logger))
	a.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	health.NewHandler(checks, m, a.logger).RegisterRoutes(a.router)

	authService := auth.NewService(stores, codec, cfg.Auth.BcryptCost, emitter, m, a.logger)
	auth.NewHandler(authService, limiter, loginRule, cfg.RateLimit.TrustForwarded, a.logger).RegisterRoutes(a.router, authenticate)

	profileService := profile.NewService(stores, a.logger)
	profile.NewHandler(profileService, gate, a.logger).RegisterRoutes(a.router, authenticate)

	taskService := task.NewService(stores, emitter, m, a.logger)
	task.NewHandler(taskService, gate, a.logger).RegisterRoutes(a.router, authenticate)

	applicationService := application.NewService(stores, emitter, m, a.logger)
	application.NewHandler(applicationService, gate, limiter, applyRule, a.logger).RegisterRoutes(a.router, authenticate)

	reviewService := review.NewService(stores, emitter, m, a.logger)
	review.NewHandler(reviewService, gate, a.logger).RegisterRoutes(a.router, authenticate)

	return nil
}

func (a *App) openStores(ctx context.Context, m *metrics.Metrics) (domain.Stores, error) {
	cfg := a.config

	if cfg.Storage.Driver == config.StorageMemory {
		stores := memory.NewStores(memory.New())
		if cfg.Storage.Seed {
			if err := fixture.Seed(ctx, stores, cfg.Auth.BcryptCost); err != nil {
				return domain.Stores{}, fmt.Errorf("failed to seed memory store: %w", err)
			}
			a.logger.Info("memory store seeded with demo fixtures")
		}
		return stores, nil
	}

	database, err := db.New(ctx, cfg.Database, a.logger)
	if err != nil {
		return domain.Stores{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error {
		db.Close(database)
		return nil
	})

	if err := m.Database.RegisterDB(database.DB, m.Meter()); err != nil {
		a.logger.Warn("failed to register pool metrics", "error", err)
	}

	if err := postgres.Migrate(ctx, database, a.logger); err != nil {
		return domain.Stores{}, fmt.Errorf("failed to run migrations: %w", err)
	}
	return postgres.NewStores(database, m), nil
}

// openLimiter returns nil when rate limiting is off. Redis backs the
// limiter when an address is configured, so limits hold across replicas.
func (a *App) openLimiter() (ratelimit.Limiter, *health.Check) {
	cfg := a.config

	if !cfg.RateLimit.Enabled {
		return nil, nil
	}
	if cfg.Redis.Addr == "" {
		return ratelimit.NewMemoryLimiter(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	a.logger.Info("redis rate limiter configured", "addr", cfg.Redis.Addr)

	return ratelimit.NewRedisLimiter(client, cfg.RateLimit.RedisKeyspace, a.logger), &health.Check{
		Name: "redis",
		Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() },
	}
}

// Handler is the root HTTP handler
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) Run() error {
	s := a.config.Server
	a.server = &http.Server{
		Addr:         s.Addr(),
		Handler:      a.router,
		ReadTimeout:  time.Duration(s.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", s.Port, "version", Version, "commit", GitCommit)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown http server: %w", err))
		}
	}
	if err := a.release(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) release(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
