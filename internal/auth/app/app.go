package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/forum/internal/auth/http"
	"github.com/aussiebroadwan/forum/internal/auth/metrics"
	"github.com/aussiebroadwan/forum/internal/auth/service"
	"github.com/aussiebroadwan/forum/internal/auth/store"
	"github.com/aussiebroadwan/forum/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/forum/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/forum/pkg/cryptox"
	"github.com/aussiebroadwan/forum/pkg/httpx"
	"github.com/aussiebroadwan/forum/pkg/jwtx"
	"github.com/aussiebroadwan/forum/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

const refreshCookieName = "refresh_token"

// Application encapsulates the session service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	metrics *metrics.Metrics

	tokenService   *service.TokenService
	sessionService *service.SessionService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, name := range cfg.WeakSecrets() {
		app.logger.Warn("token secret is shorter than recommended", "setting", name, "min_bytes", jwtx.MinSecretBytes)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"database", app.cfg.DatabaseDriver,
	)

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
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// SQLiteDSN builds the DSN for a database file. Transactions take the write
// lock up front so concurrent writers wait on busy_timeout instead of
// failing with SQLITE_BUSY on lock upgrade.
func SQLiteDSN(file string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate", file)
}

// OpenStore opens the configured user store and applies its migrations.
func OpenStore(cfg Config) (store.Store, error) {
	var (
		db  store.Store
		err error
	)

	switch cfg.DatabaseDriver {
	case DriverPostgres:
		db, err = postgres.NewStore(cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore(SQLiteDSN(cfg.DatabaseFile))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return db, nil
}

func (app *Application) initDatabase() error {
	db, err := OpenStore(app.cfg)
	if err != nil {
		return err
	}
	app.db = db

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

func (app *Application) initServices() error {
	var opts []jwtx.CodecOption
	if app.cfg.Issuer != "" {
		opts = append(opts, jwtx.WithIssuer(app.cfg.Issuer))
	}

	access, err := jwtx.NewCodec([]byte(app.cfg.AccessTokenSecret), app.cfg.AccessTokenTTL, opts...)
	if err != nil {
		return fmt.Errorf("%w: access token codec: %w", service.ErrConfiguration, err)
	}
	refresh, err := jwtx.NewCodec([]byte(app.cfg.RefreshTokenSecret), app.cfg.RefreshTokenTTL, opts...)
	if err != nil {
		return fmt.Errorf("%w: refresh token codec: %w", service.ErrConfiguration, err)
	}

	concurrency := app.cfg.HashConcurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	app.metrics = metrics.New()
	app.tokenService = &service.TokenService{
		AccessCodec:  access,
		RefreshCodec: refresh,
	}
	app.sessionService = &service.SessionService{
		Store:         app.db,
		Hasher:        cryptox.NewHasher(app.cfg.BcryptCost, concurrency),
		Tokens:        app.tokenService,
		LookupTimeout: app.cfg.UserLookupTimeout,
		Recorder:      app.metrics,
	}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.logger,
		app.cfg.CORSOrigins,
	)

	router.TokenService = app.tokenService
	router.SessionService = app.sessionService
	router.Metrics = app.metrics
	router.Cookies = httpx.NewCookieJar(httpx.CookieConfig{
		Name:     refreshCookieName,
		Secure:   app.cfg.CookieSecure,
		SameSite: httpx.ParseSameSite(app.cfg.CookieSameSite),
	})
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
