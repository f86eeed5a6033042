package session

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"idaas/cmd/security/token"
)

// Config defines all runtime configuration for the token service.
type Config struct {
	// Issuer is the value set in (and required of) the "iss" claim.
	Issuer string

	// TTL is the lifetime of issued tokens.
	TTL time.Duration

	// SigningKey is the HS256 secret. Empty means a fresh random key is
	// generated when the service is constructed; tokens then do not survive
	// a restart.
	SigningKey []byte
}

// DefaultConfig returns the default configuration (issuer "idaas", 1h TTL, generated key).
func DefaultConfig() Config {
	return Config{
		Issuer: "idaas",
		TTL:    time.Hour,
	}
}

// LoadConfigFromEnv loads token configuration from environment variables.
//
// Optional:
//   - IDAAS_TOKEN_ISSUER
//   - IDAAS_TOKEN_TTL (Go duration string, > 0)
//   - IDAAS_TOKEN_SIGNING_KEY (>= 32 bytes when set)
//   - IDAAS_REQUIRE_SIGNING_KEY (true makes IDAAS_TOKEN_SIGNING_KEY mandatory)
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("IDAAS_TOKEN_ISSUER")); v != "" {
		cfg.Issuer = v
	}

	if v := strings.TrimSpace(os.Getenv("IDAAS_TOKEN_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.TTL = d
	}

	require := false
	if v := strings.TrimSpace(os.Getenv("IDAAS_REQUIRE_SIGNING_KEY")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, ErrConfig
		}
		require = b
	}

	key, err := token.SigningKeyFromEnv(token.MinKeyBytes)
	switch {
	case err == nil:
		cfg.SigningKey = key
	case errors.Is(err, token.ErrSigningKeyMissing):
		if require {
			return Config{}, ErrConfig
		}
	default:
		// A configured but weak key is never silently replaced.
		return Config{}, ErrConfig
	}

	return cfg, nil
}
