package httpserver

import (
	"log/slog"
	"net/http"
	"net/netip"
	"strings"

	"github.com/yndnr/restgate-go/internal/server/httpserver/handler"
	"github.com/yndnr/restgate-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Dispatcher serves the resource API.
	Dispatcher *handler.Dispatcher

	// Health serves /health and /ready.
	Health *handler.Health

	// Metrics enables /metrics and request metrics when set.
	Metrics *metric.Registry

	// MetricsUser and MetricsAuthHash protect /metrics with basic auth
	// when the hash is set.
	MetricsUser     string
	MetricsAuthHash string

	Responder *handler.Responder
	Logger    *slog.Logger

	// Endpoint is the path prefix of the API, e.g. "/api".
	Endpoint string

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = allow all).
	CORSAllowedOrigins []string

	// RateLimiter limits API requests per client IP when set.
	RateLimiter *RateLimiter

	// EnableAudit enables one log line per API request.
	EnableAudit bool

	// TrustedProxies lists the peers whose X-Forwarded-For and X-Real-IP
	// headers are believed. Empty means the peer address is the client.
	TrustedProxies []netip.Prefix
}

// NewRouter creates the HTTP router with all routes and middleware.
//
// API requests pass Recover, RealIP, RequestID, CORS, RateLimit, Metrics and Audit
// before reaching the dispatcher. Probes and /metrics skip the last three.
func NewRouter(cfg *RouterConfig) http.Handler {
	var api http.Handler = cfg.Dispatcher
	var apiMiddlewares []Middleware
	if cfg.RateLimiter != nil {
		apiMiddlewares = append(apiMiddlewares, cfg.RateLimiter.Middleware())
	}
	if cfg.Metrics != nil {
		apiMiddlewares = append(apiMiddlewares, Metrics(cfg.Metrics, cfg.Dispatcher.ResourceLabel))
	}
	if cfg.EnableAudit {
		apiMiddlewares = append(apiMiddlewares, Audit(cfg.Logger))
	}
	api = Chain(api, apiMiddlewares...)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", cfg.Health.HandleHealth)
	mux.HandleFunc("GET /ready", cfg.Health.HandleReady)
	if cfg.Metrics != nil {
		var h http.Handler = cfg.Metrics.Handler()
		if cfg.MetricsAuthHash != "" {
			h = BasicAuth(cfg.MetricsUser, cfg.MetricsAuthHash, cfg.Responder)(h)
		}
		mux.Handle("GET /metrics", h)
	}
	mux.Handle(apiPattern(cfg.Endpoint), api)

	return Chain(mux,
		Recover(cfg.Logger, cfg.Responder),
		RealIP(cfg.TrustedProxies),
		RequestID(),
		CORS(cfg.CORSAllowedOrigins),
	)
}

// apiPattern returns the subtree pattern the API is mounted on.
func apiPattern(endpoint string) string {
	endpoint = strings.Trim(endpoint, "/")
	if endpoint == "" {
		return "/"
	}
	return "/" + endpoint + "/"
}
