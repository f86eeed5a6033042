// Package app wires the idaas server runtime: config, logging, storage, migrations and HTTP routes.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"idaas/cmd/identity"
	authapi "idaas/cmd/internal/auth/api"
	"idaas/cmd/internal/auth/session"
	"idaas/cmd/internal/user"
	"idaas/cmd/security/password"
)

// App is the idaas server runtime. It owns the DB pool and the HTTP handler.
type App struct {
	cfg Config
	log Logger

	dbPool *pgxpool.Pool
	store  identity.Store

	registry *prometheus.Registry
	tokens   *session.TokenService
	handler  http.Handler
}

// New constructs a fully wired App from cfg.
// An empty cfg.DatabaseURL selects the in-memory store.
func New(ctx context.Context, cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	if err := ValidateSecurityConfig(cfg); err != nil {
		return nil, err
	}

	passCfg, err := password.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("password config: %w", err)
	}
	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("token config: %w", err)
	}

	store, pool, err := newStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	a, err := newApp(cfg, log, store, pool, passCfg, sessCfg, authapi.LoadConfigFromEnv())
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}
	return a, nil
}

// newApp wires services and routes around an already opened store.
func newApp(
	cfg Config,
	log Logger,
	store identity.Store,
	pool *pgxpool.Pool,
	passCfg password.Config,
	sessCfg session.Config,
	apiCfg authapi.Config,
) (*App, error) {
	tokens, err := session.NewTokenService(sessCfg)
	if err != nil {
		return nil, err
	}
	if len(sessCfg.SigningKey) == 0 {
		log.Warn("token.key.generated", "kid", tokens.KeyFingerprint(), "hint", "tokens will not survive a restart; set IDAAS_TOKEN_SIGNING_KEY")
	} else {
		log.Info("token.key.configured", "kid", tokens.KeyFingerprint())
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	hasher := identity.NewPasswordHasher(passCfg)

	api, err := authapi.NewHandler(log, apiCfg, authapi.Deps{
		Registrar:     user.NewRegistrationService(store, hasher, log),
		Authenticator: user.NewAuthenticationService(store, hasher, log),
		Profiles:      user.NewProfileService(store, log),
		Deleter:       user.NewDeletionService(store, log),
		Lister:        user.NewDirectoryService(store),
		Tokens:        tokens,
		Metrics:       authapi.NewMetrics(reg),
	})
	if err != nil {
		return nil, err
	}

	h := newRouter(routerDeps{
		log:      log,
		cfg:      cfg,
		dbPool:   pool,
		gatherer: reg,
		metrics:  NewHTTPMetrics(reg),
		api:      api,
	})

	return &App{
		cfg:      cfg,
		log:      log,
		dbPool:   pool,
		store:    store,
		registry: reg,
		tokens:   tokens,
		handler:  h,
	}, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

// Run starts the HTTP server and blocks until ctx is canceled or the server fails.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbPool != nil)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		a.Close()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), nonZeroDuration(a.cfg.ShutdownTimeout, 10*time.Second))
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
	}
	a.Close()

	a.log.Info("server.stopped")
	return err
}

// Close releases the DB pool, if any.
func (a *App) Close() {
	if a.dbPool != nil {
		a.dbPool.Close()
	}
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// newStore decides between the Postgres-backed store and the in-memory store.
// The returned pool is nil in memory mode.
func newStore(ctx context.Context, cfg Config, log Logger) (identity.Store, *pgxpool.Pool, error) {
	if !cfg.DBEnabled() {
		log.Info("db.disabled.inmemory_store")
		return identity.NewMemoryStore(), nil, nil
	}

	if cfg.DBAutoMigrate {
		if err := RunMigrate(ctx, log, cfg, nil, "up", nil); err != nil {
			return nil, nil, err
		}
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	st, err := identity.NewPostgresStore(pool,
		identity.WithSchema(cfg.DBSchema),
		identity.WithQueryTimeout(cfg.DBQueryTimeout),
	)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	log.Info("db.enabled.postgres_store", slog.String("schema", cfg.DBSchema))
	return st, pool, nil
}
