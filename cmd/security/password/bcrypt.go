package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

func (c Config) hashBcrypt(password string) (string, error) {
	cost := c.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(h), nil
}

func (c Config) verifyBcrypt(encodedHash, password string) (bool, error) {
	cost, err := bcrypt.Cost([]byte(encodedHash))
	if err != nil {
		return false, ErrInvalidHash
	}

	// Anti-DoS boundary: refuse stored costs far above what we would produce.
	limit := c.BcryptCost
	if limit < bcrypt.DefaultCost {
		limit = bcrypt.DefaultCost
	}
	if cost > limit+4 {
		return false, ErrInvalidHash
	}

	err = bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrInvalidHash
	}
}
