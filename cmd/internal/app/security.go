package app

import (
	"errors"

	"idaas/cmd/security/token"
)

// ValidateSecurityConfig enforces the startup security policy.
// It names the failing variable so the operator sees why startup was refused.
func ValidateSecurityConfig(cfg Config) error {
	_, err := token.SigningKeyFromEnv(token.MinKeyBytes)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, token.ErrSigningKeyTooShort):
		return errors.New("security policy: IDAAS_TOKEN_SIGNING_KEY is too short (min 32 bytes)")
	case errors.Is(err, token.ErrSigningKeyMissing):
		if cfg.RequireSigningKey {
			return errors.New("security policy: IDAAS_REQUIRE_SIGNING_KEY=true but IDAAS_TOKEN_SIGNING_KEY is missing")
		}
		return nil
	default:
		return err
	}
}
