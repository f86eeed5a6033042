package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"idaas/cmd/identity"
	"idaas/cmd/security/token"
)

// Claims is the JWT payload of a session token.
type Claims struct {
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenService issues and validates session tokens.
//
// The signing key is fixed at construction and never mutated, so a TokenService
// is safe for concurrent use.
type TokenService struct {
	issuer string
	ttl    time.Duration
	key    []byte
	kid    string

	now func() time.Time
}

// NewTokenService builds a TokenService from cfg.
// An empty cfg.SigningKey is replaced by a freshly generated random key.
func NewTokenService(cfg Config) (*TokenService, error) {
	if strings.TrimSpace(cfg.Issuer) == "" || cfg.TTL <= 0 {
		return nil, ErrConfig
	}

	key := cfg.SigningKey
	if len(key) == 0 {
		k, err := token.NewSigningKey(token.MinKeyBytes)
		if err != nil {
			return nil, err
		}
		key = k
	}
	if len(key) < token.MinKeyBytes {
		return nil, ErrConfig
	}

	key = append([]byte(nil), key...)

	return &TokenService{
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		key:    key,
		kid:    token.Fingerprint(key),
		now:    time.Now,
	}, nil
}

// KeyFingerprint identifies the signing key in logs without revealing it.
func (s *TokenService) KeyFingerprint() string { return s.kid }

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue returns a signed token for u, valid for the configured TTL.
func (s *TokenService) Issue(u identity.Identity) (string, error) {
	tok, _, err := s.IssueWithExpiry(u)
	return tok, err
}

// IssueWithExpiry is Issue that also reports the token's expiry.
func (s *TokenService) IssueWithExpiry(u identity.Identity) (string, time.Time, error) {
	return s.issueAt(u, s.now())
}

func (s *TokenService) issueAt(u identity.Identity, now time.Time) (string, time.Time, error) {
	if strings.TrimSpace(u.ID) == "" {
		return "", time.Time{}, fmt.Errorf("session: issue: blank subject")
	}

	iat := jwt.NewNumericDate(now)
	exp := jwt.NewNumericDate(now.Add(s.ttl))

	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: u.Email,
		Name:  u.Name,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    s.issuer,
			IssuedAt:  iat,
			ExpiresAt: exp,
			ID:        uuid.NewString(),
		},
	})
	t.Header["kid"] = s.kid

	signed, err := t.SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("session: sign: %w", err)
	}
	return signed, exp.Time, nil
}

// Validate reports whether raw is a token this service would accept now.
func (s *TokenService) Validate(raw string) bool {
	_, err := s.parse(raw)
	return err == nil
}

// PrincipalFrom validates raw and builds the Principal from its claims.
// It reports false for an invalid token or when sub, email, name or roles is missing.
func (s *TokenService) PrincipalFrom(raw string) (Principal, bool) {
	c, err := s.parse(raw)
	if err != nil {
		return Principal{}, false
	}
	if c.Subject == "" || c.Email == "" || c.Name == "" || c.Roles == nil {
		return Principal{}, false
	}
	return Principal{
		ID:    c.Subject,
		Email: c.Email,
		Name:  c.Name,
		Roles: append([]string(nil), c.Roles...),
	}, true
}

// parse verifies signature, algorithm, issuer and expiry.
func (s *TokenService) parse(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}

	// Build a fresh parser per call so the time source is read at parse time.
	p := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)

	var c Claims
	parsed, err := p.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.key, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &c, nil
}
