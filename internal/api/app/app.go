package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	httpapi "github.com/prometheusfi/prometheus/internal/api/http"
	"github.com/prometheusfi/prometheus/internal/api/resolver"
	"github.com/prometheusfi/prometheus/internal/api/service"
	"github.com/prometheusfi/prometheus/internal/api/store/drivers/sqlite"
	"github.com/prometheusfi/prometheus/pkg/chatx"
	"github.com/prometheusfi/prometheus/pkg/cryptox"
	"github.com/prometheusfi/prometheus/pkg/gqlx"
	"github.com/prometheusfi/prometheus/pkg/httpx"
	"github.com/prometheusfi/prometheus/pkg/jwtx"
	"github.com/prometheusfi/prometheus/pkg/metricsx"
	"github.com/prometheusfi/prometheus/pkg/mq"
	"github.com/prometheusfi/prometheus/pkg/objectstore"
	"github.com/prometheusfi/prometheus/pkg/slogx"
)

// BuildVersion is overridden at build time with
// -ldflags "-X github.com/prometheusfi/prometheus/internal/api/app.BuildVersion=...".
var BuildVersion = "v0.1.0"

// Application holds the API server and everything it depends on.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         *sqlite.Store
	keyManager *jwtx.KeyManager
	metrics    *metricsx.Metrics
	publisher  mq.Publisher
	media      objectstore.Store
	redis      *redis.Client

	strictLimiter httpx.Limiter
	publicLimiter httpx.Limiter

	housekeepingService *service.HousekeepingService
	resolver            *resolver.Resolver

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "prometheus-api",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metricsx.New(),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := InitKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	app.keyManager = keyManager

	if err := app.initCollaborators(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initServices()
	if err := app.initHTTP(); err != nil {
		app.closeCollaborators()
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("prometheus api starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down prometheus api...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()
	app.closeCollaborators()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("prometheus api stopped")
	return nil
}

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initCollaborators connects the optional external systems. Each one falls
// back to a local stand-in when it is not configured.
func (app *Application) initCollaborators() error {
	var publisher mq.Publisher = mq.Noop{}
	if app.cfg.RabbitMQURL != "" {
		amqp, err := mq.Dial(app.cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		publisher = amqp
		app.logger.Info("publishing events to rabbitmq", "exchange", mq.Exchange)
	} else {
		app.logger.Warn("RABBITMQ_URL not set, domain events are dropped")
	}
	app.publisher = mq.WithObserver(publisher, app.metrics.ObservePublish)

	app.media = objectstore.Unconfigured{}
	if app.cfg.S3.Configured() {
		s3, err := objectstore.NewS3(app.cfg.S3)
		if err != nil {
			_ = app.publisher.Close()
			return fmt.Errorf("failed to initialize object storage: %w", err)
		}
		app.media = s3
	} else {
		app.logger.Warn("S3 not configured, media uploads are disabled")
	}

	if app.cfg.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPass,
		})
		app.strictLimiter = httpx.NewRedisLimiter(app.redis, httpx.StrictLimit, "ratelimit:strict")
		app.publicLimiter = httpx.NewRedisLimiter(app.redis, httpx.PublicLimit, "ratelimit:public")
		app.logger.Info("rate limits shared through redis", "addr", app.cfg.RedisAddr)
	} else {
		app.strictLimiter = httpx.NewMemoryLimiter(httpx.StrictLimit)
		app.publicLimiter = httpx.NewMemoryLimiter(httpx.PublicLimit)
	}

	return nil
}

func (app *Application) closeCollaborators() {
	if err := app.publisher.Close(); err != nil {
		app.logger.Error("error closing event publisher", "error", err)
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	tokens := &service.TokenIssuer{
		Signer:   app.keyManager.Signer(),
		Issuer:   app.cfg.Issuer,
		Audience: []string{app.cfg.Audience},
		TTL:      app.cfg.TokenTTL,
	}

	app.resolver = &resolver.Resolver{
		Auth: &service.AuthService{
			Store:     app.db,
			Tokens:    tokens,
			Publisher: app.publisher,
			InviteTTL: app.cfg.InviteTTL,
		},
		Users:         &service.UserService{Store: app.db, Publisher: app.publisher},
		Funds:         &service.FundService{Store: app.db},
		Companies:     &service.CompanyService{Store: app.db},
		Posts:         &service.PostService{Store: app.db, Media: app.media, Publisher: app.publisher},
		Notifications: &service.NotificationService{Store: app.db},
		Search:        &service.SearchService{Store: app.db},
		Media:         &service.MediaService{Media: app.media},
		Chat:          chatx.NewIssuer(app.cfg.ChatSecret),
		Strict:        app.strictLimiter,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.NotificationRetention,
	)
	app.housekeepingService.OnDeleted = func(kind string, n int64) {
		app.metrics.Housekeeping.WithLabelValues(kind).Add(float64(n))
	}
}

// initHTTP builds the schema, the router and the server
func (app *Application) initHTTP() error {
	schema, err := resolver.NewSchema(app.resolver, gqlx.WithObserver(app.metrics.ObserveField))
	if err != nil {
		return fmt.Errorf("failed to build graphql schema: %w", err)
	}

	router := httpapi.NewRouter(app.keyManager, BuildVersion, app.db, app.logger)
	router.Schema = schema
	router.Metrics = app.metrics
	router.Public = app.publicLimiter
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
