package identity

import "strings"

// RolesDelimiter separates roles in the relational roles column.
const RolesDelimiter = ","

// NormalizeRoles canonicalizes an ordered role set.
// Entries are trimmed, blanks and duplicates dropped (first occurrence wins).
// An empty result becomes []string{DefaultRole}.
func NormalizeRoles(roles []string) ([]string, error) {
	out := make([]string, 0, len(roles))
	seen := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if strings.Contains(r, RolesDelimiter) {
			return nil, invalid("identity.NormalizeRoles", "roles", "role must not contain "+RolesDelimiter)
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		out = append(out, DefaultRole)
	}
	return out, nil
}

// EncodeRoles joins roles for storage in a single column.
func EncodeRoles(roles []string) string {
	return strings.Join(roles, RolesDelimiter)
}

// DecodeRoles splits a stored roles column, preserving order.
// Empty segments (e.g. from a trailing delimiter) are dropped.
func DecodeRoles(s string) []string {
	parts := strings.Split(s, RolesDelimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
