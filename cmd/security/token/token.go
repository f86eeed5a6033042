package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

const (
	// SigningKeyEnvKey is the env var name for the token signing secret.
	// #nosec G101 -- not a credential; it's an environment variable name.
	SigningKeyEnvKey = "IDAAS_TOKEN_SIGNING_KEY"

	// MinKeyBytes is the smallest key accepted for HS256.
	MinKeyBytes = 32
)

// NewSigningKey returns n cryptographically random bytes.
func NewSigningKey(n int) ([]byte, error) {
	if n < MinKeyBytes {
		n = MinKeyBytes
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("token: generate key: %w", err)
	}
	return b, nil
}

// EncodeKey renders key as lowercase hex, suitable for SigningKeyEnvKey.
func EncodeKey(key []byte) string {
	return hex.EncodeToString(key)
}

// SigningKeyFromEnv returns the configured key bytes (trimmed), enforcing a minimum byte length.
// If the env var is missing/blank -> ErrSigningKeyMissing.
// If too short -> ErrSigningKeyTooShort.
func SigningKeyFromEnv(minBytes int) ([]byte, error) {
	raw := strings.TrimSpace(os.Getenv(SigningKeyEnvKey))
	if raw == "" {
		return nil, ErrSigningKeyMissing
	}
	b := []byte(raw)
	if minBytes > 0 && len(b) < minBytes {
		return nil, ErrSigningKeyTooShort
	}
	return b, nil
}

// SigningKeyConfigured reports whether the env key is present (non-empty after trim).
// Note: This does not enforce minimum length. Use SigningKeyFromEnv for policy checks.
func SigningKeyConfigured() bool {
	return strings.TrimSpace(os.Getenv(SigningKeyEnvKey)) != ""
}

// Fingerprint returns a short, non-reversible identifier for key
// (first 16 hex chars of SHA-256). Used as the JWT "kid" and in logs.
func Fingerprint(key []byte) string {
	sum := sha256.Sum256(key)
	return hex.EncodeToString(sum[:])[:16]
}
