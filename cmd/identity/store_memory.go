package identity

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for development and tests.
//
// Identities are keyed by ID with a secondary email -> ID index. Both maps are
// updated under one lock so the index never disagrees with the primary map.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]Identity
	emailIx map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]Identity),
		emailIx: make(map[string]string),
	}
}

var _ Store = (*MemoryStore)(nil)

// Save inserts u or overwrites the identity with the same ID.
func (s *MemoryStore) Save(ctx context.Context, u Identity) error {
	const op = "identity.MemoryStore.Save"

	if err := ctx.Err(); err != nil {
		return err
	}
	if u.ID == "" {
		return invalid(op, "id", "must not be blank")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, ok := s.emailIx[u.Email]; ok && owner != u.ID {
		return ConflictError{Op: op, Field: "email"}
	}

	if prev, ok := s.byID[u.ID]; ok && prev.Email != u.Email {
		delete(s.emailIx, prev.Email)
	}
	s.byID[u.ID] = u.Clone()
	s.emailIx[u.Email] = u.ID
	return nil
}

// FindByID returns the identity with id.
func (s *MemoryStore) FindByID(ctx context.Context, id string) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return Identity{}, notFound("identity.MemoryStore.FindByID")
	}
	return u.Clone(), nil
}

// FindByEmail returns the identity registered with email.
func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emailIx[email]
	if !ok {
		return Identity{}, notFound("identity.MemoryStore.FindByEmail")
	}
	return s.byID[id].Clone(), nil
}

// DeleteByID removes the identity with id, if any.
func (s *MemoryStore) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.byID[id]; ok {
		delete(s.emailIx, u.Email)
		delete(s.byID, id)
	}
	return nil
}

// DeleteByEmail removes the identity registered with email, if any.
func (s *MemoryStore) DeleteByEmail(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.emailIx[email]; ok {
		delete(s.byID, id)
		delete(s.emailIx, email)
	}
	return nil
}

// FindAll returns a snapshot of every identity. Order is unspecified.
func (s *MemoryStore) FindAll(ctx context.Context) ([]Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Identity, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u.Clone())
	}
	return out, nil
}
