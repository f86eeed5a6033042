package user

import (
	"context"
	"fmt"
	"log/slog"

	"idaas/cmd/identity"
)

// ProfileService updates the mutable profile fields of an identity.
type ProfileService struct {
	store identity.Store
	log   *slog.Logger
}

// NewProfileService returns a ProfileService. A nil log uses slog.Default().
func NewProfileService(store identity.Store, log *slog.Logger) *ProfileService {
	if log == nil {
		log = slog.Default()
	}
	return &ProfileService{store: store, log: log.With(slog.String("service", "profile"))}
}

// UpdateProfile replaces name and phone of the identity with id.
// ID, email, credential hash and roles are preserved.
func (s *ProfileService) UpdateProfile(ctx context.Context, id, name, phone string) (identity.Identity, error) {
	const op = "user.UpdateProfile"

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := existing.WithProfile(name, phone)
	if err != nil {
		return identity.Identity{}, err
	}

	if err := s.store.Save(ctx, updated); err != nil {
		return identity.Identity{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user.profile.updated", slog.String("user_id", updated.ID))
	return updated, nil
}
