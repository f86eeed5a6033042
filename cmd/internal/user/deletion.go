package user

import (
	"context"
	"fmt"
	"log/slog"

	"idaas/cmd/identity"
)

// DeletionService removes identities.
type DeletionService struct {
	store identity.Store
	log   *slog.Logger
}

// NewDeletionService returns a DeletionService. A nil log uses slog.Default().
func NewDeletionService(store identity.Store, log *slog.Logger) *DeletionService {
	if log == nil {
		log = slog.Default()
	}
	return &DeletionService{store: store, log: log.With(slog.String("service", "deletion"))}
}

// DeleteByID removes the identity with id. It fails with NotFound when absent.
func (s *DeletionService) DeleteByID(ctx context.Context, id string) error {
	const op = "user.DeleteByID"

	if _, err := s.store.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user.deleted", slog.String("user_id", id))
	return nil
}

// DeleteByEmail removes the identity registered with email. It fails with NotFound when absent.
func (s *DeletionService) DeleteByEmail(ctx context.Context, email string) error {
	const op = "user.DeleteByEmail"

	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.DeleteByEmail(ctx, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user.deleted", slog.String("user_id", u.ID))
	return nil
}
