package session

import (
	"context"
	"slices"
)

// Principal is the authenticated caller, derived only from validated token claims.
// It lives for one request.
type Principal struct {
	ID    string
	Email string
	Name  string
	Roles []string
}

// HasRole reports whether p carries role. Authorization decisions belong to callers.
func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the Principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
