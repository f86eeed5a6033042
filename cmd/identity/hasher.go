package identity

import (
	"errors"

	"idaas/cmd/security/password"
)

// CredentialHasher turns a plaintext password into a stored credential hash
// and checks a plaintext against one.
//
// Verify never returns an error: a malformed or empty hash simply does not match.
type CredentialHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// PasswordHasher is the CredentialHasher backed by cmd/security/password.
type PasswordHasher struct {
	cfg password.Config
}

var _ CredentialHasher = PasswordHasher{}

// NewPasswordHasher returns a hasher using cfg (algorithm, cost and policy).
func NewPasswordHasher(cfg password.Config) PasswordHasher {
	return PasswordHasher{cfg: cfg}
}

// Hash validates plain against the password policy and hashes it.
// Policy failures are reported as ValidationError{Field: "password"}.
func (h PasswordHasher) Hash(plain string) (string, error) {
	const op = "identity.PasswordHasher.Hash"

	enc, err := h.cfg.Hash(plain)
	if err != nil {
		switch {
		case errors.Is(err, password.ErrPasswordBlank):
			return "", invalid(op, "password", "must not be blank")
		case errors.Is(err, password.ErrPasswordTooShort):
			return "", invalid(op, "password", "too short")
		case errors.Is(err, password.ErrPasswordTooLong):
			return "", invalid(op, "password", "too long")
		case errors.Is(err, password.ErrWeakPassword):
			return "", invalid(op, "password", "too weak")
		default:
			return "", OpError{Op: op, Kind: err, Msg: "hash failed"}
		}
	}
	return enc, nil
}

// Verify reports whether plain matches hash.
func (h PasswordHasher) Verify(plain, hash string) bool {
	if hash == "" {
		return false
	}
	ok, err := h.cfg.Verify(hash, plain)
	return err == nil && ok
}
