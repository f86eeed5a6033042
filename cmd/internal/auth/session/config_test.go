package session

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearTokenEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"IDAAS_TOKEN_ISSUER",
		"IDAAS_TOKEN_TTL",
		"IDAAS_TOKEN_SIGNING_KEY",
		"IDAAS_REQUIRE_SIGNING_KEY",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	clearTokenEnv(t)

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "idaas", cfg.Issuer)
	assert.Equal(t, time.Hour, cfg.TTL)
	assert.Empty(t, cfg.SigningKey)
}

func TestLoadConfigFromEnv_Valid(t *testing.T) {
	clearTokenEnv(t)
	key := strings.Repeat("s", 48)
	t.Setenv("IDAAS_TOKEN_ISSUER", "idaas-test")
	t.Setenv("IDAAS_TOKEN_TTL", "10m")
	t.Setenv("IDAAS_TOKEN_SIGNING_KEY", key)
	t.Setenv("IDAAS_REQUIRE_SIGNING_KEY", "true")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "idaas-test", cfg.Issuer)
	assert.Equal(t, 10*time.Minute, cfg.TTL)
	assert.Equal(t, []byte(key), cfg.SigningKey)
}

func TestLoadConfigFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"negative ttl":       {"IDAAS_TOKEN_TTL": "-5m"},
		"unparsable ttl":     {"IDAAS_TOKEN_TTL": "soon"},
		"short key":          {"IDAAS_TOKEN_SIGNING_KEY": "short"},
		"required but unset": {"IDAAS_REQUIRE_SIGNING_KEY": "true"},
		"bad require flag":   {"IDAAS_REQUIRE_SIGNING_KEY": "perhaps"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearTokenEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfigFromEnv()
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}
