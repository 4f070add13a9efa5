package gate

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yndnr/restgate-go/internal/core/domain"
	"github.com/yndnr/restgate-go/internal/core/registry"
)

// HeaderToken is the request header carrying the session token.
const HeaderToken = "x-token"

// LoginResource is the resource that issues and validates tokens.
const LoginResource = "login"

// Decision is the outcome of a gate check.
type Decision int

const (
	Unchecked Decision = iota
	Exempt
	Authorized
	Rejected
)

// String implements fmt.Stringer.
func (d Decision) String() string {
	switch d {
	case Exempt:
		return "exempt"
	case Authorized:
		return "authorized"
	case Rejected:
		return "rejected"
	default:
		return "unchecked"
	}
}

// TokenValidator is implemented by the login controller.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token, ip string) (*domain.UserContext, error)
}

// Observer is notified of every decision.
type Observer interface {
	ObserveDecision(resource string, d Decision)
}

// Request is what the gate needs to know about an incoming request.
type Request struct {
	Resource domain.ResourceName
	Method   string
	Token    string
	RemoteIP string
}

// Result is the outcome of Check. User is set only when Authorized.
type Result struct {
	Decision Decision
	User     *domain.UserContext
}

// Gate authorizes requests.
type Gate struct {
	locator  registry.Locator
	exempt   map[domain.ResourceName]struct{}
	policy   domain.RolePolicy
	logger   *slog.Logger
	observer Observer
}

// Option configures a Gate.
type Option func(*Gate)

// WithExempt replaces the exemption set.
func WithExempt(names ...string) Option {
	return func(g *Gate) {
		g.exempt = make(map[domain.ResourceName]struct{}, len(names))
		for _, n := range names {
			g.exempt[domain.ResourceName(n)] = struct{}{}
		}
	}
}

// WithPolicy replaces the role policy.
func WithPolicy(p domain.RolePolicy) Option {
	return func(g *Gate) {
		g.policy = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// WithObserver sets the decision observer.
func WithObserver(o Observer) Option {
	return func(g *Gate) {
		g.observer = o
	}
}

// New creates a gate that reaches the login resource through loc.
func New(loc registry.Locator, opts ...Option) *Gate {
	g := &Gate{
		locator: loc,
		exempt:  map[domain.ResourceName]struct{}{LoginResource: {}},
		policy:  domain.DefaultRolePolicy(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// IsExempt reports whether name bypasses token checks.
func (g *Gate) IsExempt(name domain.ResourceName) bool {
	_, ok := g.exempt[name]
	return ok
}

// Check runs the gate for req. A Rejected result always comes with an error.
func (g *Gate) Check(ctx context.Context, req Request) (Result, error) {
	res, err := g.check(ctx, req)
	if g.observer != nil {
		g.observer.ObserveDecision(string(req.Resource), res.Decision)
	}
	return res, err
}

func (g *Gate) check(ctx context.Context, req Request) (Result, error) {
	if g.IsExempt(req.Resource) {
		return Result{Decision: Exempt}, nil
	}

	if req.Token == "" {
		return Result{Decision: Rejected}, domain.ErrUnauthorized
	}

	validator, err := registry.ControllerAs[TokenValidator](ctx, g.locator, LoginResource)
	if err != nil {
		return Result{Decision: Rejected}, err
	}

	user, err := validator.ValidateToken(ctx, req.Token, req.RemoteIP)
	if err != nil {
		if !errors.Is(err, domain.ErrTokenNotFound) {
			g.logger.Warn("token validation failed",
				"resource", req.Resource,
				"remote_ip", req.RemoteIP,
				"error", err,
			)
		}
		return Result{Decision: Rejected}, domain.ErrUnauthorized
	}

	if !g.policy.Allows(user.Role, req.Method) {
		return Result{Decision: Rejected}, domain.ErrPermissionDenied.WithDetails(
			"role does not allow " + req.Method,
		)
	}

	return Result{Decision: Authorized, User: user}, nil
}
