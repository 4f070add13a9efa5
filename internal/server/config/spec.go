package config

import "time"

// ServerConfig is the root configuration for restgate-server.
type ServerConfig struct {
	Server    ServerSection    `koanf:"server"`
	API       APISection       `koanf:"api"`
	Auth      AuthSection      `koanf:"auth"`
	RateLimit RateLimitSection `koanf:"rate_limit"`
	Storage   StorageSection   `koanf:"storage"`
	Log       LogSection       `koanf:"log"`
	Metrics   MetricsSection   `koanf:"metrics"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP  HTTPConfig  `koanf:"http"`
	Local LocalConfig `koanf:"local"`
}

// LocalConfig configures the local management socket.
type LocalConfig struct {
	// Socket is the Unix socket path. Empty disables the socket.
	Socket string `koanf:"socket"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	TLSCertFile     string        `koanf:"tls_cert_file"`
	TLSKeyFile      string        `koanf:"tls_key_file"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// TrustedProxies lists CIDRs or addresses of reverse proxies whose
	// forwarding headers name the client. Empty trusts none.
	TrustedProxies []string `koanf:"trusted_proxies"`
}

// APISection configures the dispatched API.
type APISection struct {
	// Version is the path segment that precedes the resource name.
	Version string `koanf:"version"`

	// Endpoint is the mount point of the API, e.g. "/api".
	Endpoint string `koanf:"endpoint"`

	// Debug attaches stack traces to error payloads.
	Debug bool `koanf:"debug"`

	// Workspace prefixes implementation identifiers in the catalog.
	Workspace string `koanf:"workspace"`

	// RouteMapping maps resource names to implementation identifiers.
	RouteMapping map[string]string `koanf:"route_mapping"`

	// Exempt lists resources reachable without a token.
	Exempt []string `koanf:"exempt"`

	MaxResults int    `koanf:"max_results"`
	Lang       string `koanf:"lang"`
	Timezone   string `koanf:"timezone"`

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string `koanf:"cors_origins"`
}

// AuthSection configures the token protocol.
type AuthSection struct {
	TokenTTL time.Duration `koanf:"token_ttl"`

	// Generator selects the token generator: "legacy" or "random".
	Generator string `koanf:"generator"`

	// Roles maps a role id to its allowed HTTP methods. "*" allows all.
	Roles map[string][]string `koanf:"roles"`
}

// RateLimitSection configures the per-client request limiter.
type RateLimitSection struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
	DriverMemory   = "memory"
)

// StorageSection configures storage backends.
type StorageSection struct {
	// Driver selects the relational store: sqlite or postgres.
	Driver string `koanf:"driver"`

	// Tokens selects the token store: sqlite, postgres, badger or memory.
	// Empty means the relational driver.
	Tokens string `koanf:"tokens"`

	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Badger   BadgerConfig   `koanf:"badger"`
}

// SQLiteConfig configures the sqlite store.
type SQLiteConfig struct {
	Path     string `koanf:"path"`
	PoolSize int    `koanf:"pool_size"`
}

// PostgresConfig configures the postgres store.
type PostgresConfig struct {
	DSN     string `koanf:"dsn"`
	Migrate bool   `koanf:"migrate"`
}

// BadgerConfig configures the badger token store.
type BadgerConfig struct {
	Dir         string        `koanf:"dir"`
	GCInterval  time.Duration `koanf:"gc_interval"`
	GCThreshold float64       `koanf:"gc_threshold"`
	SyncWrites  bool          `koanf:"sync_writes"`

	// EncryptionKey is a hex-encoded key that seals stored tokens.
	EncryptionKey string `koanf:"encryption_key"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	Enabled   bool   `koanf:"enabled"`
	Namespace string `koanf:"namespace"`

	// User and AuthHash enable basic auth on /metrics. AuthHash is a packed
	// PBKDF2 hash as printed by "restgate-server hash-password".
	User     string `koanf:"user"`
	AuthHash string `koanf:"auth_hash"`
}

// TokenDriver returns the effective token store driver.
func (s StorageSection) TokenDriver() string {
	if s.Tokens == "" {
		return s.Driver
	}
	return s.Tokens
}
