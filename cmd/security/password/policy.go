package password

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// bcrypt only reads the first 72 bytes of its input.
const bcryptMaxBytes = 72

// Validate checks plain against the configured policy.
// Lengths are counted in runes; bcrypt additionally caps the byte length.
func (c Config) Validate(plain string) error {
	if strings.TrimSpace(plain) == "" {
		return ErrPasswordBlank
	}

	switch n := utf8.RuneCountInString(plain); {
	case n < c.Policy.MinLength:
		return ErrPasswordTooShort
	case n > c.Policy.MaxLength:
		return ErrPasswordTooLong
	case c.algorithm() == AlgorithmBcrypt && len(plain) > bcryptMaxBytes:
		return ErrPasswordTooLong
	}

	if c.Policy.RejectVeryWeak && isVeryWeak(plain) {
		return ErrWeakPassword
	}
	return nil
}

var commonPasswords = []string{
	"password", "password123", "123456", "123456789",
	"qwerty", "qwerty123", "11111111", "letmein",
}

// isVeryWeak catches a handful of obviously guessable inputs. It is not a
// strength estimator.
func isVeryWeak(plain string) bool {
	s := strings.TrimSpace(plain)
	if s == "" {
		return true
	}

	first, _ := utf8.DecodeRuneInString(s)
	if strings.Count(s, string(first)) == utf8.RuneCountInString(s) {
		return true
	}

	if utf8.RuneCountInString(s) < 12 && strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return true
	}

	return slices.Contains(commonPasswords, strings.ToLower(s))
}
