package authapi

import (
	"os"
	"strconv"
	"strings"
)

// Config controls HTTP API behavior.
type Config struct {
	// MaxBodyBytes bounds JSON request bodies.
	MaxBodyBytes int64

	// AdminRole is the role a principal needs to list all users.
	AdminRole string
}

// DefaultConfig returns the defaults: 1 MiB bodies, "ADMIN" listing role.
func DefaultConfig() Config {
	return Config{
		MaxBodyBytes: 1 << 20,
		AdminRole:    "ADMIN",
	}
}

// LoadConfigFromEnv loads API config from environment variables with safe defaults.
//
//   - IDAAS_API_MAX_BODY_BYTES
//   - IDAAS_API_ADMIN_ROLE
func LoadConfigFromEnv() Config {
	def := DefaultConfig()
	return Config{
		MaxBodyBytes: envInt64("IDAAS_API_MAX_BODY_BYTES", def.MaxBodyBytes),
		AdminRole:    envString("IDAAS_API_ADMIN_ROLE", def.AdminRole),
	}
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
