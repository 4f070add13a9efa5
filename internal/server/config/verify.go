package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/restgate-go/internal/core/domain"
	"github.com/yndnr/restgate-go/internal/telemetry/logger"
	"github.com/yndnr/restgate-go/pkg/crypto/credential"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	checks := []func(*ServerConfig) error{
		verifyServer,
		verifyAPI,
		verifyAuth,
		verifyStorage,
		verifyLog,
		verifyMetrics,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return err
		}
	}
	return nil
}

func verifyServer(cfg *ServerConfig) error {
	h := cfg.Server.HTTP
	if _, _, err := net.SplitHostPort(h.Addr); err != nil {
		return fmt.Errorf("server.http.addr: %w", err)
	}
	if (h.TLSCertFile == "") != (h.TLSKeyFile == "") {
		return errors.New("server.http: tls_cert_file and tls_key_file must be set together")
	}
	for _, f := range []string{h.TLSCertFile, h.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("server.http: %w", err)
		}
	}
	if _, err := h.Proxies(); err != nil {
		return fmt.Errorf("server.http.trusted_proxies: %w", err)
	}
	return nil
}

// Proxies parses TrustedProxies.
func (h HTTPConfig) Proxies() ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(h.TrustedProxies))
	for _, v := range h.TrustedProxies {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if !strings.Contains(v, "/") {
			a, err := netip.ParseAddr(v)
			if err != nil {
				return nil, err
			}
			out = append(out, netip.PrefixFrom(a, a.BitLen()))
			continue
		}
		p, err := netip.ParsePrefix(v)
		if err != nil {
			return nil, err
		}
		out = append(out, p.Masked())
	}
	return out, nil
}

func verifyAPI(cfg *ServerConfig) error {
	api := cfg.API
	if api.Version == "" || strings.Contains(api.Version, "/") {
		return fmt.Errorf("api.version: invalid value %q", api.Version)
	}
	if !strings.HasPrefix(api.Endpoint, "/") {
		return fmt.Errorf("api.endpoint must start with '/': %q", api.Endpoint)
	}
	if api.Workspace == "" {
		return errors.New("api.workspace is required")
	}
	if len(api.RouteMapping) == 0 {
		return errors.New("api.route_mapping is empty")
	}
	for _, name := range api.Exempt {
		if _, ok := api.RouteMapping[name]; !ok {
			return fmt.Errorf("api.exempt: %q is not in api.route_mapping", name)
		}
	}
	if api.MaxResults < 1 {
		return errors.New("api.max_results must be at least 1")
	}
	if api.Timezone != "" {
		if _, err := time.LoadLocation(api.Timezone); err != nil {
			return fmt.Errorf("api.timezone: %w", err)
		}
	}
	return nil
}

func verifyAuth(cfg *ServerConfig) error {
	if cfg.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	switch cfg.Auth.Generator {
	case "legacy", "random":
	default:
		return fmt.Errorf("auth.generator: unknown generator %q", cfg.Auth.Generator)
	}
	if _, err := cfg.RolePolicy(); err != nil {
		return err
	}
	return nil
}

func verifyStorage(cfg *ServerConfig) error {
	s := cfg.Storage
	switch s.Driver {
	case DriverSQLite:
		if s.SQLite.Path == "" {
			return errors.New("storage.sqlite.path is required")
		}
		if err := os.MkdirAll(filepath.Dir(s.SQLite.Path), 0750); err != nil {
			return fmt.Errorf("cannot create sqlite directory: %w", err)
		}
	case DriverPostgres:
		if s.Postgres.DSN == "" {
			return errors.New("storage.postgres.dsn is required")
		}
	default:
		return fmt.Errorf("storage.driver: unsupported driver %q", s.Driver)
	}

	switch s.TokenDriver() {
	case DriverSQLite, DriverPostgres:
		if s.TokenDriver() != s.Driver {
			return fmt.Errorf("storage.tokens: %q requires storage.driver %q", s.Tokens, s.Tokens)
		}
	case DriverBadger:
		if s.Badger.Dir == "" {
			return errors.New("storage.badger.dir is required")
		}
		if _, err := s.Badger.Key(); err != nil {
			return err
		}
	case DriverMemory:
	default:
		return fmt.Errorf("storage.tokens: unsupported driver %q", s.Tokens)
	}
	return nil
}

func verifyLog(cfg *ServerConfig) error {
	if !logger.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level: unknown level %q", cfg.Log.Level)
	}
	return nil
}

func verifyMetrics(cfg *ServerConfig) error {
	m := cfg.Metrics
	if m.AuthHash == "" {
		return nil
	}
	if m.User == "" {
		return errors.New("metrics.user is required with metrics.auth_hash")
	}
	if _, err := credential.Validate("", m.AuthHash); err != nil {
		return fmt.Errorf("metrics.auth_hash: %w", err)
	}
	return nil
}

// RolePolicy converts the auth.roles section.
func (c *ServerConfig) RolePolicy() (domain.RolePolicy, error) {
	if len(c.Auth.Roles) == 0 {
		return domain.DefaultRolePolicy(), nil
	}
	p := make(domain.RolePolicy, len(c.Auth.Roles))
	for k, methods := range c.Auth.Roles {
		id, err := strconv.Atoi(k)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("auth.roles: invalid role id %q", k)
		}
		p[domain.Role(id)] = methods
	}
	return p, nil
}

// Key decodes the encryption key. An empty key returns nil.
func (b BadgerConfig) Key() ([]byte, error) {
	if b.EncryptionKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(b.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("storage.badger.encryption_key: %w", err)
	}
	switch len(key) {
	case 16, 24, 32:
		return key, nil
	}
	return nil, fmt.Errorf("storage.badger.encryption_key: must decode to 16, 24 or 32 bytes, got %d", len(key))
}
