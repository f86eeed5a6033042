package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"

	"idaas/cmd/identity/migrations"
)

// RunMigrate applies or rolls back the identity schema in cfg.DBSchema.
// Supported commands: "up", "down", "version", "force N".
// A nil migrationsFS uses the embedded identity migrations.
func RunMigrate(ctx context.Context, log *slog.Logger, cfg Config, migrationsFS fs.FS, command string, args []string) error {
	switch command {
	case "up", "down", "version", "force":
	default:
		return fmt.Errorf("unknown migrate command: %s (use: up, down, version, force)", command)
	}

	var forceVersion int
	if command == "force" {
		if len(args) == 0 {
			return errors.New("force requires a version number argument")
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version: %w", err)
		}
		forceVersion = v
	}

	if cfg.DatabaseURL == "" {
		return errors.New("migrate: IDAAS_DATABASE_URL is not set")
	}
	if log == nil {
		log = slog.Default()
	}
	if migrationsFS == nil {
		migrationsFS = migrations.FS
	}

	if err := ensureSchema(ctx, cfg.DatabaseURL, cfg.DBSchema); err != nil {
		return err
	}

	dsn, err := migrateDSN(cfg.DatabaseURL, cfg.DBSchema)
	if err != nil {
		return err
	}

	src, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	m.Log = &migrateLogger{logger: log}

	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate up: %w", err)
		}
		ver, dirty, _ := m.Version()
		log.Info("migrate.up.ok", slog.String("schema", cfg.DBSchema), slog.Uint64("version", uint64(ver)), slog.Bool("dirty", dirty))

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate down: %w", err)
		}
		log.Info("migrate.down.ok", slog.String("schema", cfg.DBSchema))

	case "version":
		ver, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("migrate version: %w", err)
		}
		log.Info("migrate.version", slog.String("schema", cfg.DBSchema), slog.Uint64("version", uint64(ver)), slog.Bool("dirty", dirty))

	case "force":
		if err := m.Force(forceVersion); err != nil {
			return fmt.Errorf("migrate force: %w", err)
		}
		log.Info("migrate.force.ok", slog.String("schema", cfg.DBSchema), slog.Int("version", forceVersion))
	}

	return nil
}

// migrateDSN rewrites a postgres URL for the pgx5 migrate driver with search_path pinned to schema.
func migrateDSN(databaseURL, schema string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("migrate: parse url: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql", "pgx5":
	default:
		return "", fmt.Errorf("migrate: unsupported url scheme %q", u.Scheme)
	}
	u.Scheme = "pgx5"

	if schema != "" {
		q := u.Query()
		q.Set("search_path", schema)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func ensureSchema(ctx context.Context, databaseURL, schema string) error {
	if schema == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("migrate: connect: %w", err)
	}
	defer func() { _ = conn.Close(context.Background()) }()

	if _, err := conn.Exec(ctx, `CREATE SCHEMA IF NOT EXISTS `+pgx.Identifier{schema}.Sanitize()); err != nil {
		return fmt.Errorf("migrate: create schema: %w", err)
	}
	return nil
}

type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
