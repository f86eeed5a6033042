package user

import (
	"context"
	"fmt"
	"log/slog"

	"idaas/cmd/identity"
)

// AuthenticationService checks email/password credentials.
type AuthenticationService struct {
	store  identity.Store
	hasher identity.CredentialHasher
	log    *slog.Logger

	// dummyHash is verified against when the email is unknown so that
	// unknown-email and wrong-password failures cost the same.
	dummyHash string
}

// NewAuthenticationService returns an AuthenticationService. A nil log uses slog.Default().
func NewAuthenticationService(store identity.Store, hasher identity.CredentialHasher, log *slog.Logger) *AuthenticationService {
	if log == nil {
		log = slog.Default()
	}
	s := &AuthenticationService{
		store:  store,
		hasher: hasher,
		log:    log.With(slog.String("service", "authentication")),
	}
	if h, err := hasher.Hash("idaas-timing-equalizer"); err == nil {
		s.dummyHash = h
	} else {
		s.log.Warn("auth.dummy_hash.unavailable", slog.Any("error", err))
	}
	return s
}

// Authenticate returns the identity registered with email if password matches.
//
// Unknown email, an identity without a credential and a wrong password all fail
// with the same identity.AuthenticationError. Store failures other than absence
// are returned wrapped, not disguised as authentication failures.
func (s *AuthenticationService) Authenticate(ctx context.Context, email, password string) (identity.Identity, error) {
	const op = "user.Authenticate"

	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if identity.IsNotFound(err) {
			if s.dummyHash != "" {
				_ = s.hasher.Verify(password, s.dummyHash)
			}
			s.fail("unknown_email")
			return identity.Identity{}, identity.AuthenticationError{}
		}
		return identity.Identity{}, fmt.Errorf("%s: %w", op, err)
	}

	if !u.HasCredential() {
		s.fail("no_credential")
		return identity.Identity{}, identity.AuthenticationError{}
	}

	if !s.hasher.Verify(password, u.CredentialHash) {
		s.fail("mismatch")
		return identity.Identity{}, identity.AuthenticationError{}
	}

	s.log.Debug("auth.login.ok", slog.String("user_id", u.ID))
	return u, nil
}

func (s *AuthenticationService) fail(reason string) {
	s.log.Info("auth.login.failed", slog.String("reason", reason))
}
