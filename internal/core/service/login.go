package service

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/yndnr/restgate-go/internal/core/domain"
	"github.com/yndnr/restgate-go/pkg/token"
)

// maxIssueAttempts bounds retries when a generated token is already stored.
const maxIssueAttempts = 3

// Login outcomes reported to the LoginObserver.
const (
	LoginSucceeded      = "success"
	LoginUnknownAccount = "unknown_account"
	LoginBadChallenge   = "bad_challenge"
	LoginIssueFailed    = "issue_failed"
)

// LoginObserver is notified of every login attempt.
type LoginObserver interface {
	ObserveLogin(outcome string)
}

// LoginConfig holds configuration for LoginService.
type LoginConfig struct {
	// TokenTTL is how long an issued token stays valid (default: 10 days).
	TokenTTL time.Duration

	// Generator produces token values (default: token.LegacyGenerator).
	Generator token.Generator

	// Now returns the current time (default: time.Now).
	Now Clock

	// HostAddress returns the address loopback clients are recorded under
	// (default: the first address the local hostname resolves to).
	HostAddress func() (string, error)

	Logger   *slog.Logger
	Observer LoginObserver
}

// DefaultLoginConfig returns default configuration.
func DefaultLoginConfig() *LoginConfig {
	return &LoginConfig{
		TokenTTL:    domain.DefaultTokenTTL,
		Generator:   token.NewLegacyGenerator(),
		Now:         time.Now,
		HostAddress: lookupHostAddress,
		Logger:      slog.Default(),
	}
}

// LoginService issues and validates session tokens.
//
// Login is a two-step challenge: the client knows its public key and
// sends hex(sha1(publicKey + storedPasswordHash)) as the password. Every
// failure yields domain.ErrAuthFailure so callers cannot tell an unknown
// account from a wrong password.
//
// The challenge is compared with plain string equality, which is not
// constant time. Deployed clients depend on this exchange as is; the
// PBKDF2 verifier in pkg/crypto/credential is the constant-time path and
// is kept separate from it.
type LoginService struct {
	accounts AccountStore
	tokens   TokenStore
	cfg      LoginConfig
}

// NewLoginService creates a LoginService. Zero fields of cfg take defaults.
func NewLoginService(accounts AccountStore, tokens TokenStore, cfg *LoginConfig) *LoginService {
	c := *DefaultLoginConfig()
	if cfg != nil {
		if cfg.TokenTTL > 0 {
			c.TokenTTL = cfg.TokenTTL
		}
		if cfg.Generator != nil {
			c.Generator = cfg.Generator
		}
		if cfg.Now != nil {
			c.Now = cfg.Now
		}
		if cfg.HostAddress != nil {
			c.HostAddress = cfg.HostAddress
		}
		if cfg.Logger != nil {
			c.Logger = cfg.Logger
		}
		c.Observer = cfg.Observer
	}
	return &LoginService{accounts: accounts, tokens: tokens, cfg: c}
}

// LoginRequest carries the credentials of a login attempt.
type LoginRequest struct {
	Email     string // username
	PublicKey string // X-Requested-With header
	Pass      string // hex(sha1(PublicKey + stored hash))
	RemoteIP  string
}

// Login verifies the challenge response and issues a new token.
func (s *LoginService) Login(ctx context.Context, req *LoginRequest) (string, error) {
	if req.Email == "" || req.PublicKey == "" || req.Pass == "" {
		s.observe(LoginUnknownAccount)
		return "", domain.ErrAuthFailure
	}

	account, err := s.accounts.FindAccount(ctx, req.Email, req.PublicKey)
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			s.cfg.Logger.Error("account lookup failed", "error", err)
		}
		s.observe(LoginUnknownAccount)
		return "", domain.ErrAuthFailure
	}

	want := token.ChallengeResponse(req.PublicKey, account.PasswordHash)
	if want != req.Pass {
		s.observe(LoginBadChallenge)
		return "", domain.ErrAuthFailure
	}

	value, err := s.issue(ctx, account.ID, s.NormalizeIP(req.RemoteIP))
	if err != nil {
		s.cfg.Logger.Error("token issue failed", "user_id", account.ID, "error", err)
		s.observe(LoginIssueFailed)
		return "", domain.ErrAuthFailure
	}

	s.observe(LoginSucceeded)
	return value, nil
}

func (s *LoginService) issue(ctx context.Context, userID int64, ip string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		value, err := s.cfg.Generator.Generate()
		if err != nil {
			return "", err
		}

		id, err := s.tokens.InsertToken(ctx, &domain.Token{
			UserID:    userID,
			Value:     value,
			RemoteIP:  ip,
			CreatedAt: s.cfg.Now(),
		})
		if errors.Is(err, domain.ErrTokenConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return "", err
		}
		if id == 0 {
			return "", domain.ErrStorageError.WithDetails("token insert returned no id")
		}
		return value, nil
	}
	return "", lastErr
}

// ValidateToken returns the live token issued to ip, or
// domain.ErrTokenNotFound. A token exactly TokenTTL old is expired.
func (s *LoginService) ValidateToken(ctx context.Context, value, ip string) (*domain.Token, error) {
	if value == "" {
		return nil, domain.ErrTokenNotFound
	}
	notBefore := s.cfg.Now().Add(-s.cfg.TokenTTL)
	return s.tokens.FindValidToken(ctx, value, s.NormalizeIP(ip), notBefore)
}

// NormalizeIP rewrites loopback addresses to the host's own address so
// that local clients match the address recorded at login.
func (s *LoginService) NormalizeIP(ip string) string {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil || !parsed.IsLoopback() {
		return ip
	}
	addr, err := s.cfg.HostAddress()
	if err != nil || addr == "" {
		return ip
	}
	return addr
}

// TokenTTL returns the configured token lifetime.
func (s *LoginService) TokenTTL() time.Duration {
	return s.cfg.TokenTTL
}

func (s *LoginService) observe(outcome string) {
	if s.cfg.Observer != nil {
		s.cfg.Observer.ObserveLogin(outcome)
	}
}

func lookupHostAddress() (string, error) {
	host, err := os.Hostname()
	if err != nil {
		return "", err
	}
	addrs, err := net.LookupHost(host)
	if err != nil {
		return "", err
	}
	if len(addrs) == 0 {
		return host, nil
	}
	return addrs[0], nil
}
