package authapi

import (
	"net/http"
	"strings"

	"idaas/cmd/identity"
	"idaas/cmd/internal/auth/session"
)

func toUserResponse(u identity.Identity) userResponse {
	roles := append([]string{}, u.Roles...)
	return userResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Phone: u.Phone,
		Roles: roles,
	}
}

func toPrincipalResponse(p session.Principal) principalResponse {
	return principalResponse{
		ID:    p.ID,
		Email: p.Email,
		Name:  p.Name,
		Roles: append([]string{}, p.Roles...),
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
