package password

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Algorithm names the hashing scheme used by Hash.
type Algorithm string

const (
	AlgorithmBcrypt   Algorithm = "bcrypt"
	AlgorithmArgon2id Algorithm = "argon2id"
)

// ParseAlgorithm maps a config string to an Algorithm (case-insensitive).
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case AlgorithmBcrypt:
		return AlgorithmBcrypt, nil
	case AlgorithmArgon2id:
		return AlgorithmArgon2id, nil
	default:
		return "", ErrUnknownAlgorithm
	}
}

// Argon2idParams controls Argon2id hashing cost.
// MemoryKiB is in KiB as required by argon2.IDKey.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Policy controls password validation and anti-DoS boundaries.
type Policy struct {
	MinLength int
	MaxLength int
	// If true, enable an extra, minimal weak-pattern rejection.
	RejectVeryWeak bool
}

// Config is the single configuration surface for this package.
type Config struct {
	Algorithm  Algorithm
	BcryptCost int
	Params     Argon2idParams
	Policy     Policy
}

// DefaultConfig returns the baseline: bcrypt at bcrypt.DefaultCost, any non-blank
// password up to 256 runes. Values can be overridden via env.
func DefaultConfig() Config {
	threads := min(max(runtime.NumCPU(), 1), 4)

	return Config{
		Algorithm:  AlgorithmBcrypt,
		BcryptCost: bcrypt.DefaultCost,
		Params: Argon2idParams{
			MemoryKiB:   64 * 1024,
			Iterations:  3,
			Parallelism: uint8(threads), // #nosec G115 -- at most 4
			SaltLength:  16,
			KeyLength:   32,
		},
		Policy: Policy{
			MinLength:      1,
			MaxLength:      256,
			RejectVeryWeak: false,
		},
	}
}

// FromEnv loads config from environment variables on top of DefaultConfig.
// Unset variables keep their defaults; a set but invalid value is an error
// naming the variable.
//
//	IDAAS_PASSWORD_ALGORITHM         bcrypt|argon2id
//	IDAAS_BCRYPT_COST                4..31
//	IDAAS_PASSWORD_MIN_LEN           1..1024 runes
//	IDAAS_PASSWORD_MAX_LEN           1..4096 runes
//	IDAAS_PASSWORD_REJECT_VERY_WEAK  bool
//	IDAAS_ARGON2_MEMORY_KIB          8192..1048576
//	IDAAS_ARGON2_ITERATIONS          1..20
//	IDAAS_ARGON2_PARALLELISM         1..64
//	IDAAS_ARGON2_SALT_LEN            8..64
//	IDAAS_ARGON2_KEY_LEN             16..64
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	fields := []struct {
		key string
		set func(v string) error
	}{
		{"IDAAS_PASSWORD_ALGORITHM", func(v string) (err error) {
			cfg.Algorithm, err = ParseAlgorithm(v)
			return err
		}},
		{"IDAAS_BCRYPT_COST", intSetter(&cfg.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)},
		{"IDAAS_PASSWORD_MIN_LEN", intSetter(&cfg.Policy.MinLength, 1, 1024)},
		{"IDAAS_PASSWORD_MAX_LEN", intSetter(&cfg.Policy.MaxLength, 1, 4096)},
		{"IDAAS_PASSWORD_REJECT_VERY_WEAK", func(v string) (err error) {
			cfg.Policy.RejectVeryWeak, err = parseBool(v)
			return err
		}},
		{"IDAAS_ARGON2_MEMORY_KIB", uintSetter(&cfg.Params.MemoryKiB, 8*1024, 1024*1024)},
		{"IDAAS_ARGON2_ITERATIONS", uintSetter(&cfg.Params.Iterations, 1, 20)},
		{"IDAAS_ARGON2_PARALLELISM", uintSetter(&cfg.Params.Parallelism, 1, 64)},
		{"IDAAS_ARGON2_SALT_LEN", uintSetter(&cfg.Params.SaltLength, 8, 64)},
		{"IDAAS_ARGON2_KEY_LEN", uintSetter(&cfg.Params.KeyLength, 16, 64)},
	}

	for _, f := range fields {
		v, ok := os.LookupEnv(f.key)
		if !ok {
			continue
		}
		if err := f.set(strings.TrimSpace(v)); err != nil {
			return Config{}, fmt.Errorf("%s: %w", f.key, err)
		}
	}

	if cfg.Policy.MinLength > cfg.Policy.MaxLength {
		return Config{}, fmt.Errorf("password policy invalid: min_len(%d) > max_len(%d)",
			cfg.Policy.MinLength, cfg.Policy.MaxLength)
	}
	return cfg, nil
}

func intSetter(dst *int, lo, hi int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("not an integer")
		}
		if n < lo || n > hi {
			return fmt.Errorf("out of range [%d..%d]", lo, hi)
		}
		*dst = n
		return nil
	}
}

func uintSetter[T uint8 | uint32](dst *T, lo, hi uint64) func(string) error {
	return func(v string) error {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return errors.New("not an unsigned integer")
		}
		if n < lo || n > hi {
			return fmt.Errorf("out of range [%d..%d]", lo, hi)
		}
		*dst = T(n)
		return nil
	}
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, errors.New("invalid boolean")
	}
}
