package password

import "strings"

// Hash validates password against the policy and returns an encoded hash
// produced with the configured algorithm.
func (c Config) Hash(password string) (string, error) {
	if err := c.Validate(password); err != nil {
		return "", err
	}

	switch c.algorithm() {
	case AlgorithmBcrypt:
		return c.hashBcrypt(password)
	case AlgorithmArgon2id:
		return c.hashArgon2id(password)
	default:
		return "", ErrUnknownAlgorithm
	}
}

// Verify checks whether password matches the given encoded hash.
// The algorithm is taken from the hash prefix, not from the config.
// Returns (true, nil) for a match, (false, nil) for mismatch,
// and (false, ErrInvalidHash) for malformed/unsupported hashes.
func (c Config) Verify(encodedHash, password string) (bool, error) {
	switch AlgorithmOf(encodedHash) {
	case AlgorithmBcrypt:
		return c.verifyBcrypt(encodedHash, password)
	case AlgorithmArgon2id:
		return c.verifyArgon2id(encodedHash, password)
	default:
		return false, ErrInvalidHash
	}
}

// AlgorithmOf reports which algorithm produced encodedHash, or "" if unknown.
func AlgorithmOf(encodedHash string) Algorithm {
	switch {
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return AlgorithmArgon2id
	case strings.HasPrefix(encodedHash, "$2a$"),
		strings.HasPrefix(encodedHash, "$2b$"),
		strings.HasPrefix(encodedHash, "$2y$"):
		return AlgorithmBcrypt
	default:
		return ""
	}
}

func (c Config) algorithm() Algorithm {
	if c.Algorithm == "" {
		return AlgorithmBcrypt
	}
	return c.Algorithm
}
