package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"idaas/cmd/identity"
)

// RegistrationService creates new identities.
type RegistrationService struct {
	store  identity.Store
	hasher identity.CredentialHasher
	newID  func() (string, error)
	log    *slog.Logger
}

// NewRegistrationService returns a RegistrationService. A nil log uses slog.Default().
func NewRegistrationService(store identity.Store, hasher identity.CredentialHasher, log *slog.Logger) *RegistrationService {
	if log == nil {
		log = slog.Default()
	}
	return &RegistrationService{
		store:  store,
		hasher: hasher,
		newID:  identity.NewID,
		log:    log.With(slog.String("service", "registration")),
	}
}

// Register creates an identity with a fresh ID and the default role.
//
// Errors:
//   - identity.ConflictError{Field: "email"} when the email is already registered,
//     including when a concurrent registration wins the race at the store
//   - identity.ValidationError for a blank password or a malformed email, name or phone
//   - wrapped store errors otherwise
func (s *RegistrationService) Register(ctx context.Context, email, name, phone, password string) (identity.Identity, error) {
	const op = "user.Register"

	_, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return identity.Identity{}, identity.ConflictError{Op: op, Field: "email"}
	case !identity.IsNotFound(err):
		return identity.Identity{}, fmt.Errorf("%s: %w", op, err)
	}

	if strings.TrimSpace(password) == "" {
		return identity.Identity{}, identity.ValidationError{Op: op, Field: "password", Msg: "must not be blank"}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return identity.Identity{}, err
	}

	id, err := s.newID()
	if err != nil {
		return identity.Identity{}, fmt.Errorf("%s: id: %w", op, err)
	}

	u, err := identity.New(identity.Fields{
		ID:             id,
		Email:          email,
		Name:           name,
		Phone:          phone,
		CredentialHash: hash,
	})
	if err != nil {
		return identity.Identity{}, err
	}

	if err := s.store.Save(ctx, u); err != nil {
		if identity.IsDuplicateEmail(err) {
			return identity.Identity{}, identity.ConflictError{Op: op, Field: "email"}
		}
		return identity.Identity{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user.register.ok", slog.String("user_id", u.ID))
	return u, nil
}
