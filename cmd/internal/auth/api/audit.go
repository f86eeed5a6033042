package authapi

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"

	"idaas/cmd/internal/auth/session"
)

// audit records which principal performed action on an authenticated route.
// It only logs; no decision depends on it.
func (h *Handler) audit(ctx context.Context, action string, p session.Principal, attrs ...slog.Attr) {
	base := []slog.Attr{
		slog.String("action", action),
		slog.String("principal_id", p.ID),
		slog.Any("principal_roles", p.Roles),
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		base = append(base, slog.String("request_id", reqID))
	}
	h.log.LogAttrs(ctx, slog.LevelInfo, "audit", append(base, attrs...)...)
}
