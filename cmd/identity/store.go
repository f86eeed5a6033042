package identity

import "context"

// Store is the identity persistence boundary.
//
// Contract shared by every implementation:
//   - Values crossing the boundary are independent copies; mutating a returned
//     Identity never changes stored state.
//   - Absence is reported as NotFoundError (errors.Is(err, ErrNotFound)).
//     Backend failures are returned wrapped and are never reported as absence.
//   - Save is an upsert keyed by ID. Saving an email already held by another ID
//     fails with ConflictError{Field: "email"}, atomically with respect to
//     concurrent writers.
//   - DeleteByID/DeleteByEmail are idempotent: deleting an absent identity is not
//     an error at this layer. Services check existence first.
type Store interface {
	Save(ctx context.Context, u Identity) error
	FindByID(ctx context.Context, id string) (Identity, error)
	FindByEmail(ctx context.Context, email string) (Identity, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByEmail(ctx context.Context, email string) error
	FindAll(ctx context.Context) ([]Identity, error)
}
