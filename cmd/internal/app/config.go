package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int

	// Empty DatabaseURL selects the in-memory identity store.
	DatabaseURL    string
	DBMaxConns     int32
	DBMinConns     int32
	DBSchema       string
	DBQueryTimeout time.Duration
	DBAutoMigrate  bool

	// If true, /readyz returns 503 unless a database is configured and reachable.
	ReadinessRequireDB bool

	// If true, IDAAS_TOKEN_SIGNING_KEY must be set (>= 32 bytes) at startup.
	RequireSigningKey bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("IDAAS_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("IDAAS_LOG_LEVEL", "info"),
		LogFormat: EnvString("IDAAS_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("IDAAS_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("IDAAS_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("IDAAS_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("IDAAS_HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   EnvDuration("IDAAS_HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),

		MaxHeaderBytes: EnvInt("IDAAS_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL:    EnvString("IDAAS_DATABASE_URL", ""),
		DBMaxConns:     EnvInt32("IDAAS_DB_MAX_CONNS", 10),
		DBMinConns:     EnvInt32("IDAAS_DB_MIN_CONNS", 0),
		DBSchema:       EnvString("IDAAS_DB_SCHEMA", "idaas"),
		DBQueryTimeout: EnvDuration("IDAAS_DB_QUERY_TIMEOUT", 5*time.Second),
		DBAutoMigrate:  EnvBool("IDAAS_DB_AUTO_MIGRATE", false),

		ReadinessRequireDB: EnvBool("IDAAS_READINESS_REQUIRE_DB", false),

		RequireSigningKey: EnvBool("IDAAS_REQUIRE_SIGNING_KEY", false),
	}
}

// DBEnabled reports whether a Postgres URL is configured.
func (c Config) DBEnabled() bool { return c.DatabaseURL != "" }
