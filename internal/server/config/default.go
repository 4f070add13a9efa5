package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultAPIVersion  = "v1"
	DefaultAPIEndpoint = "/api"
	DefaultWorkspace   = "Rest"
	DefaultMaxResults  = 1000
	DefaultLang        = "es"
	DefaultTimezone    = "America/Mexico_City"

	DefaultTokenTTL  = 240 * time.Hour
	DefaultGenerator = "legacy"

	DefaultRateLimitRPS   = 50
	DefaultRateLimitBurst = 100

	DefaultSQLitePath     = "/var/lib/restgate/restgate.db"
	DefaultSQLitePoolSize = 8
	DefaultBadgerDir      = "/var/lib/restgate/tokens"
	DefaultGCInterval     = 10 * time.Minute
	DefaultGCThreshold    = 0.5

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "restgate"
)

// DefaultRouteMapping returns the built-in resource mapping.
func DefaultRouteMapping() map[string]string {
	return map[string]string{
		"countries": "Countries",
		"customers": "Customers",
		"language":  "Language",
		"login":     "Login",
		"users":     "Users",
	}
}

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:            DefaultHTTPAddr,
				ReadTimeout:     DefaultReadTimeout,
				WriteTimeout:    DefaultWriteTimeout,
				ShutdownTimeout: DefaultShutdownTimeout,
			},
		},
		API: APISection{
			Version:      DefaultAPIVersion,
			Endpoint:     DefaultAPIEndpoint,
			Workspace:    DefaultWorkspace,
			RouteMapping: DefaultRouteMapping(),
			Exempt:       []string{"login"},
			MaxResults:   DefaultMaxResults,
			Lang:         DefaultLang,
			Timezone:     DefaultTimezone,
			CORSOrigins:  []string{"*"},
		},
		Auth: AuthSection{
			TokenTTL:  DefaultTokenTTL,
			Generator: DefaultGenerator,
			Roles: map[string][]string{
				"1": {"*"},
				"2": {"GET", "POST"},
				"3": {"GET"},
			},
		},
		RateLimit: RateLimitSection{
			Enabled: true,
			RPS:     DefaultRateLimitRPS,
			Burst:   DefaultRateLimitBurst,
		},
		Storage: StorageSection{
			Driver: DriverSQLite,
			SQLite: SQLiteConfig{
				Path:     DefaultSQLitePath,
				PoolSize: DefaultSQLitePoolSize,
			},
			Badger: BadgerConfig{
				Dir:         DefaultBadgerDir,
				GCInterval:  DefaultGCInterval,
				GCThreshold: DefaultGCThreshold,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsSection{
			Enabled:   true,
			Namespace: DefaultMetricsNamespace,
		},
	}
}
