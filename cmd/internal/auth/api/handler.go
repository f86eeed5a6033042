// Package authapi exposes the identity services over HTTP.
package authapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"idaas/cmd/identity"
	"idaas/cmd/internal/auth/session"
)

// Registrar creates identities.
type Registrar interface {
	Register(ctx context.Context, email, name, phone, password string) (identity.Identity, error)
}

// Authenticator checks credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (identity.Identity, error)
}

// ProfileUpdater changes name and phone.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, id, name, phone string) (identity.Identity, error)
}

// Deleter removes identities.
type Deleter interface {
	DeleteByID(ctx context.Context, id string) error
}

// Lister lists identities.
type Lister interface {
	List(ctx context.Context) ([]identity.Identity, error)
}

// Tokens issues session tokens and turns them back into principals.
type Tokens interface {
	IssueWithExpiry(u identity.Identity) (string, time.Time, error)
	PrincipalFrom(raw string) (session.Principal, bool)
}

// Deps are the collaborators of Handler. All fields except Metrics are required.
type Deps struct {
	Registrar     Registrar
	Authenticator Authenticator
	Profiles      ProfileUpdater
	Deleter       Deleter
	Lister        Lister
	Tokens        Tokens
	Metrics       *Metrics
}

// Handler wires HTTP user endpoints to the identity services.
type Handler struct {
	log      *slog.Logger
	cfg      Config
	deps     Deps
	validate *validator.Validate
}

// NewHandler constructs a Handler. A nil log uses slog.Default().
func NewHandler(log *slog.Logger, cfg Config, deps Deps) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if deps.Registrar == nil || deps.Authenticator == nil || deps.Profiles == nil ||
		deps.Deleter == nil || deps.Lister == nil || deps.Tokens == nil {
		return nil, errors.New("authapi: missing dependency")
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}
	if strings.TrimSpace(cfg.AdminRole) == "" {
		cfg.AdminRole = DefaultConfig().AdminRole
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		log:      log,
		cfg:      cfg,
		deps:     deps,
		validate: v,
	}, nil
}

// Register mounts the routes on r.
func (h *Handler) Register(r chi.Router) {
	if h == nil || r == nil {
		return
	}
	r.Get("/", h.handleWelcome)
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Get("/", h.handleList)
			r.Get("/me", h.handleMe)
			r.Put("/{id}", h.handleUpdate)
			r.Delete("/{id}", h.handleDelete)
		})
	})
}

// ---- handlers ----

func (h *Handler) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Welcome to idaas, the identity service.\n"))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		h.deps.Metrics.registration("invalid_request")
		return
	}

	u, err := h.deps.Registrar.Register(r.Context(), deref(req.Email), deref(req.Name), deref(req.Phone), deref(req.Password))
	if err != nil {
		h.deps.Metrics.registration(outcomeOf(err))
		h.writeServiceError(w, r, "register", err)
		return
	}

	h.deps.Metrics.registration("ok")
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		h.deps.Metrics.login("invalid_request")
		return
	}

	u, err := h.deps.Authenticator.Authenticate(r.Context(), deref(req.Email), deref(req.Password))
	if err != nil {
		h.deps.Metrics.login(outcomeOf(err))
		h.writeServiceError(w, r, "login", err)
		return
	}

	tok, exp, err := h.deps.Tokens.IssueWithExpiry(u)
	if err != nil {
		h.deps.Metrics.login("error")
		h.log.ErrorContext(r.Context(), "auth.login.issue_token.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	h.deps.Metrics.login("ok")
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     tok,
		TokenType: "Bearer",
		ExpiresAt: exp.UTC(),
		User:      toUserResponse(u),
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	p, _ := session.PrincipalFromContext(r.Context())
	h.audit(r.Context(), "user.me", p)
	writeJSON(w, http.StatusOK, toPrincipalResponse(p))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	p, _ := session.PrincipalFromContext(r.Context())
	h.audit(r.Context(), "user.list", p)

	if !p.HasRole(h.cfg.AdminRole) {
		writeError(w, http.StatusForbidden, "forbidden", "role "+h.cfg.AdminRole+" required")
		return
	}

	all, err := h.deps.Lister.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "list", err)
		return
	}

	out := listResponse{Users: make([]userResponse, 0, len(all))}
	for _, u := range all {
		out.Users = append(out.Users, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, _ := session.PrincipalFromContext(r.Context())
	h.audit(r.Context(), "user.update", p, slog.String("target_id", id))

	var req updateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	u, err := h.deps.Profiles.UpdateProfile(r.Context(), id, deref(req.Name), deref(req.Phone))
	if err != nil {
		h.writeServiceError(w, r, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, _ := session.PrincipalFromContext(r.Context())
	h.audit(r.Context(), "user.delete", p, slog.String("target_id", id))

	if err := h.deps.Deleter.DeleteByID(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- helpers ----

// requireAuth resolves the bearer token into a Principal stored in the request context.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			h.deps.Metrics.tokenRejected()
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		p, ok := h.deps.Tokens.PrincipalFrom(raw)
		if !ok {
			h.deps.Metrics.tokenRejected()
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithPrincipal(r.Context(), p)))
	})
}

// decode reads and validates a JSON body into dst, writing a 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeFieldError(w, http.StatusBadRequest, "invalid_input", verrs[0].Field(), verrs[0].Field()+" is required")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid request")
		return false
	}
	return true
}

// writeServiceError maps service error kinds to HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	var ve identity.ValidationError
	switch {
	case errors.As(err, &ve):
		writeFieldError(w, http.StatusBadRequest, "invalid_input", ve.Field, strings.TrimSpace(fmt.Sprintf("%s %s", ve.Field, ve.Msg)))
	case identity.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid input")
	case identity.IsDuplicateEmail(err):
		writeFieldError(w, http.StatusConflict, "email_taken", "email", "email already registered")
	case identity.IsConflict(err):
		writeError(w, http.StatusConflict, "conflict", "conflict")
	case identity.IsUnauthenticated(err):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", identity.InvalidCredentialsMessage)
	case identity.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", "user not found")
	default:
		h.log.ErrorContext(r.Context(), "api."+action+".fail", "err", err)
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "please retry later")
	}
}

func outcomeOf(err error) string {
	switch {
	case identity.IsInvalidInput(err):
		return "invalid_input"
	case identity.IsDuplicateEmail(err):
		return "email_taken"
	case identity.IsUnauthenticated(err):
		return "invalid_credentials"
	default:
		return "error"
	}
}
