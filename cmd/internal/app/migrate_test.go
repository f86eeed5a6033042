package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrate_RejectsBadCommands(t *testing.T) {
	t.Parallel()

	cfg := Config{DatabaseURL: "postgres://u:p@localhost:5432/idaas", DBSchema: "idaas"}

	err := RunMigrate(context.Background(), nil, cfg, nil, "sideways", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migrate command")

	err = RunMigrate(context.Background(), nil, cfg, nil, "force", nil)
	require.Error(t, err)

	err = RunMigrate(context.Background(), nil, cfg, nil, "force", []string{"x"})
	require.Error(t, err)

	err = RunMigrate(context.Background(), nil, Config{}, nil, "up", nil)
	require.Error(t, err)
}

func TestMigrateDSN(t *testing.T) {
	t.Parallel()

	got, err := migrateDSN("postgres://u:p@db:5432/idaas?sslmode=disable", "tenant_a")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "pgx5://u:p@db:5432/idaas?"), got)
	assert.Contains(t, got, "sslmode=disable")
	assert.Contains(t, got, "search_path=tenant_a")

	_, err = migrateDSN("mysql://u:p@db/idaas", "x")
	assert.Error(t, err)
}

// TestRunMigrate_UpDown is opt-in and requires IDAAS_DATABASE_URL.
func TestRunMigrate_UpDown(t *testing.T) {
	raw := strings.TrimSpace(os.Getenv("IDAAS_DATABASE_URL"))
	if raw == "" {
		t.Skip("integration test skipped: IDAAS_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema := "idaas_mig_" + strings.ToLower(ulid.Make().String())
	cfg := Config{DatabaseURL: raw, DBSchema: schema}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	conn, err := pgx.Connect(ctx, raw)
	if err != nil {
		t.Skipf("integration test skipped: Postgres unreachable: %v", err)
	}
	t.Cleanup(func() {
		_, _ = conn.Exec(context.Background(), `DROP SCHEMA IF EXISTS `+pgx.Identifier{schema}.Sanitize()+` CASCADE`)
		_ = conn.Close(context.Background())
	})

	require.NoError(t, RunMigrate(ctx, log, cfg, nil, "up", nil))
	require.NoError(t, RunMigrate(ctx, log, cfg, nil, "up", nil))
	require.NoError(t, RunMigrate(ctx, log, cfg, nil, "version", nil))

	var exists bool
	err = conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = $1 AND table_name = 'users')`,
		schema).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, RunMigrate(ctx, log, cfg, nil, "down", nil))

	err = conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = $1 AND table_name = 'users')`,
		schema).Scan(&exists)
	require.NoError(t, err)
	assert.False(t, exists)
}
