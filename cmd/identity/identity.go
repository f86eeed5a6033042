package identity

import (
	"regexp"
	"strings"
)

// DefaultRole is assigned when an identity is created without roles.
const DefaultRole = "USER"

var (
	emailRe = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+$`)
	// E.164: '+', leading digit 1-9, at most 15 digits in total.
	phoneRe = regexp.MustCompile(`^\+[1-9][0-9]{0,14}$`)
)

// Identity is the durable user record.
//
// Values are only produced by New (or WithProfile, which calls New), so a stored
// Identity always satisfies the field invariants. Treat it as immutable: build a
// new value instead of assigning fields on one you got from a Store.
type Identity struct {
	ID    string
	Email string
	Name  string
	Phone string

	// CredentialHash is the encoded password hash. Empty means the identity has no
	// password credential (legacy records); authentication always fails for it.
	CredentialHash string

	Roles []string
}

// Fields is the input of New.
type Fields struct {
	ID             string
	Email          string
	Name           string
	Phone          string
	CredentialHash string
	Roles          []string
}

// New validates fields and returns a new Identity.
// It is the single validation gate: every creation and update path goes through it.
func New(f Fields) (Identity, error) {
	const op = "identity.New"

	if strings.TrimSpace(f.ID) == "" {
		return Identity{}, invalid(op, "id", "must not be blank")
	}
	if strings.TrimSpace(f.Email) == "" {
		return Identity{}, invalid(op, "email", "must not be blank")
	}
	if strings.TrimSpace(f.Name) == "" {
		return Identity{}, invalid(op, "name", "must not be blank")
	}
	if !emailRe.MatchString(f.Email) {
		return Identity{}, invalid(op, "email", "must be a valid email address")
	}
	if strings.TrimSpace(f.Phone) == "" {
		return Identity{}, invalid(op, "phone", "must not be blank")
	}
	if !phoneRe.MatchString(f.Phone) {
		return Identity{}, invalid(op, "phone", "must be a valid E.164 number (e.g. +12025550123)")
	}

	roles, err := NormalizeRoles(f.Roles)
	if err != nil {
		return Identity{}, err
	}

	return Identity{
		ID:             f.ID,
		Email:          f.Email,
		Name:           f.Name,
		Phone:          f.Phone,
		CredentialHash: f.CredentialHash,
		Roles:          roles,
	}, nil
}

// WithProfile returns a copy of u with name and phone replaced.
// ID, Email, CredentialHash and Roles are carried over unchanged.
func (u Identity) WithProfile(name, phone string) (Identity, error) {
	return New(Fields{
		ID:             u.ID,
		Email:          u.Email,
		Name:           name,
		Phone:          phone,
		CredentialHash: u.CredentialHash,
		Roles:          u.Roles,
	})
}

// HasCredential reports whether u can authenticate with a password.
func (u Identity) HasCredential() bool {
	return strings.TrimSpace(u.CredentialHash) != ""
}

// Clone returns a deep copy of u.
func (u Identity) Clone() Identity {
	out := u
	if u.Roles != nil {
		out.Roles = append([]string(nil), u.Roles...)
	}
	return out
}
