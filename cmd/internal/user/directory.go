package user

import (
	"context"
	"fmt"

	"idaas/cmd/identity"
)

// DirectoryService lists identities.
type DirectoryService struct {
	store identity.Store
}

// NewDirectoryService returns a DirectoryService.
func NewDirectoryService(store identity.Store) *DirectoryService {
	return &DirectoryService{store: store}
}

// List returns every identity. Order is not significant.
func (s *DirectoryService) List(ctx context.Context) ([]identity.Identity, error) {
	out, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("user.List: %w", err)
	}
	return out, nil
}
