package session

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idaas/cmd/identity"
)

func newTestService(t *testing.T) *TokenService {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SigningKey = []byte(strings.Repeat("k", 32))
	s, err := NewTokenService(cfg)
	require.NoError(t, err)
	return s
}

func testIdentity(t *testing.T, roles ...string) identity.Identity {
	t.Helper()
	u, err := identity.New(identity.Fields{
		ID:    "01HZX3Q4M8V6C2N7K9T5R1B0AD",
		Email: "a@x.com",
		Name:  "Ann",
		Phone: "+12025550123",
		Roles: roles,
	})
	require.NoError(t, err)
	return u
}

// signWith signs claims with the service key, bypassing Issue.
func signWith(t *testing.T, s *TokenService, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(method, claims).SignedString(s.key)
	require.NoError(t, err)
	return raw
}

func TestTokenService_RoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	u := testIdentity(t, "ADMIN", "USER", "AUDITOR")

	raw, err := s.Issue(u)
	require.NoError(t, err)
	assert.Len(t, strings.Split(raw, "."), 3)

	assert.True(t, s.Validate(raw))

	p, ok := s.PrincipalFrom(raw)
	require.True(t, ok)
	assert.Equal(t, Principal{
		ID:    u.ID,
		Email: "a@x.com",
		Name:  "Ann",
		Roles: []string{"ADMIN", "USER", "AUDITOR"},
	}, p)
	assert.True(t, p.HasRole("ADMIN"))
	assert.False(t, p.HasRole("ROOT"))
}

func TestTokenService_ClaimsAndHeader(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	raw, exp, err := s.issueAt(testIdentity(t), now)
	require.NoError(t, err)
	assert.True(t, now.Add(time.Hour).Equal(exp))

	var c Claims
	tok, _, err := jwt.NewParser().ParseUnverified(raw, &c)
	require.NoError(t, err)

	assert.Equal(t, "HS256", tok.Header["alg"])
	assert.Equal(t, s.KeyFingerprint(), tok.Header["kid"])
	assert.Equal(t, "idaas", c.Issuer)
	assert.Equal(t, now.Unix(), c.IssuedAt.Unix())
	assert.Equal(t, now.Add(time.Hour).Unix(), c.ExpiresAt.Unix())
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, []string{"USER"}, c.Roles)
	assert.NotContains(t, raw, string(s.key))
}

func TestTokenService_Expiry(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	raw, exp, err := s.issueAt(testIdentity(t), issued)
	require.NoError(t, err)

	s.now = func() time.Time { return exp.Add(-time.Second) }
	assert.True(t, s.Validate(raw))

	s.now = func() time.Time { return exp }
	assert.False(t, s.Validate(raw))

	s.now = func() time.Time { return exp.Add(time.Second) }
	assert.False(t, s.Validate(raw))
	_, ok := s.PrincipalFrom(raw)
	assert.False(t, ok)
}

func TestTokenService_RejectsTampering(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	raw, err := s.Issue(testIdentity(t))
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)

	flip := func(seg string) string {
		b := []byte(seg)
		if b[0] == 'A' {
			b[0] = 'B'
		} else {
			b[0] = 'A'
		}
		return string(b)
	}

	for name, bad := range map[string]string{
		"empty":     "",
		"garbage":   "not.a.token",
		"payload":   parts[0] + "." + flip(parts[1]) + "." + parts[2],
		"signature": parts[0] + "." + parts[1] + "." + flip(parts[2]),
		"truncated": parts[0] + "." + parts[1],
	} {
		assert.False(t, s.Validate(bad), name)
		_, ok := s.PrincipalFrom(bad)
		assert.False(t, ok, name)
	}
}

func TestTokenService_RejectsOtherKey(t *testing.T) {
	t.Parallel()

	a := newTestService(t)
	b, err := NewTokenService(DefaultConfig())
	require.NoError(t, err)

	raw, err := a.Issue(testIdentity(t))
	require.NoError(t, err)

	assert.False(t, b.Validate(raw))
	assert.NotEqual(t, a.KeyFingerprint(), b.KeyFingerprint())
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	now := time.Now()
	claims := Claims{
		Email: "a@x.com",
		Name:  "Ann",
		Roles: []string{"USER"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "id-1",
			Issuer:    "idaas",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	hs512 := signWith(t, s, jwt.SigningMethodHS512, claims)
	assert.False(t, s.Validate(hs512))

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	assert.False(t, s.Validate(none))

	// Sanity: the same claims under HS256 are accepted.
	assert.True(t, s.Validate(signWith(t, s, jwt.SigningMethodHS256, claims)))
}

func TestTokenService_RejectsWrongIssuerAndMissingExp(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	now := time.Now()

	wrongIss := signWith(t, s, jwt.SigningMethodHS256, Claims{
		Email: "a@x.com", Name: "Ann", Roles: []string{"USER"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "id-1", Issuer: "someone-else",
			IssuedAt: jwt.NewNumericDate(now), ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	assert.False(t, s.Validate(wrongIss))

	noExp := signWith(t, s, jwt.SigningMethodHS256, Claims{
		Email: "a@x.com", Name: "Ann", Roles: []string{"USER"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "id-1", Issuer: "idaas", IssuedAt: jwt.NewNumericDate(now),
		},
	})
	assert.False(t, s.Validate(noExp))
}

func TestTokenService_PrincipalRequiresAllClaims(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	now := time.Now()
	reg := jwt.RegisteredClaims{
		Subject:   "id-1",
		Issuer:    "idaas",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	noSub := reg
	noSub.Subject = ""

	cases := map[string]Claims{
		"no sub":   {Email: "a@x.com", Name: "Ann", Roles: []string{"USER"}, RegisteredClaims: noSub},
		"no email": {Name: "Ann", Roles: []string{"USER"}, RegisteredClaims: reg},
		"no name":  {Email: "a@x.com", Roles: []string{"USER"}, RegisteredClaims: reg},
		"no roles": {Email: "a@x.com", Name: "Ann", RegisteredClaims: reg},
	}
	for name, c := range cases {
		raw := signWith(t, s, jwt.SigningMethodHS256, c)

		// Still a valid signed token...
		assert.True(t, s.Validate(raw), name)
		// ...but not a usable principal.
		_, ok := s.PrincipalFrom(raw)
		assert.False(t, ok, name)
	}
}

func TestTokenService_ConcurrentUse(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	u := testIdentity(t, "USER", "ADMIN")

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			raw, err := s.Issue(u)
			if err != nil {
				errs <- err.Error()
				return
			}
			if p, ok := s.PrincipalFrom(raw); !ok || p.ID != u.ID {
				errs <- "principal mismatch"
			}
		}()
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Error(e)
	}
}

func TestNewTokenService_Config(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService(Config{Issuer: "", TTL: time.Hour})
	assert.ErrorIs(t, err, ErrConfig)

	_, err = NewTokenService(Config{Issuer: "idaas", TTL: 0})
	assert.ErrorIs(t, err, ErrConfig)

	_, err = NewTokenService(Config{Issuer: "idaas", TTL: time.Hour, SigningKey: []byte("short")})
	assert.ErrorIs(t, err, ErrConfig)

	key := []byte(strings.Repeat("z", 32))
	s, err := NewTokenService(Config{Issuer: "idaas", TTL: time.Minute, SigningKey: key})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, s.TTL())

	// The service keeps its own copy of the key.
	key[0] = 'y'
	assert.Equal(t, byte('z'), s.key[0])
}
