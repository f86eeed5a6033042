package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{
		"IDAAS_HTTP_ADDR", "IDAAS_LOG_LEVEL", "IDAAS_LOG_FORMAT", "IDAAS_DATABASE_URL",
		"IDAAS_DB_SCHEMA", "IDAAS_DB_MAX_CONNS", "IDAAS_DB_AUTO_MIGRATE", "IDAAS_HTTP_READ_TIMEOUT",
	} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "idaas", cfg.DBSchema)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.False(t, cfg.DBAutoMigrate)
	assert.False(t, cfg.DBEnabled())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("IDAAS_HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("IDAAS_DATABASE_URL", "postgres://u:p@localhost:5432/idaas")
	t.Setenv("IDAAS_DB_SCHEMA", "tenant_a")
	t.Setenv("IDAAS_DB_MAX_CONNS", "25")
	t.Setenv("IDAAS_DB_AUTO_MIGRATE", "true")
	t.Setenv("IDAAS_HTTP_READ_TIMEOUT", "3s")

	cfg := LoadConfig()
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTPAddr)
	assert.True(t, cfg.DBEnabled())
	assert.Equal(t, "tenant_a", cfg.DBSchema)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.True(t, cfg.DBAutoMigrate)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
}

func TestEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("IDAAS_TEST_BOOL", "maybe")
	t.Setenv("IDAAS_TEST_INT", "-4")
	t.Setenv("IDAAS_TEST_INT32", "99999999999")
	t.Setenv("IDAAS_TEST_DUR", "soon")
	t.Setenv("IDAAS_TEST_STR", "   ")

	assert.True(t, EnvBool("IDAAS_TEST_BOOL", true))
	assert.Equal(t, 7, EnvInt("IDAAS_TEST_INT", 7))
	assert.Equal(t, int32(3), EnvInt32("IDAAS_TEST_INT32", 3))
	assert.Equal(t, time.Minute, EnvDuration("IDAAS_TEST_DUR", time.Minute))
	assert.Equal(t, "def", EnvString("IDAAS_TEST_STR", "def"))
}
