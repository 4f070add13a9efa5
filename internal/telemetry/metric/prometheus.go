package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/restgate-go/internal/core/gate"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "restgate"

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	RateLimited      prometheus.Counter

	// Dispatch metrics
	GateDecisions    *prometheus.CounterVec
	Constructions    *prometheus.CounterVec
	ConstructionTime *prometheus.HistogramVec
	LoginAttempts    *prometheus.CounterVec
}

// NewRegistry creates the metric set under namespace and registers it,
// together with the Go runtime and process collectors.
func NewRegistry(namespace string) *Registry {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	r := &Registry{
		reg: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, resource and status code.",
		}, []string{"method", "resource", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "resource"}),
		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Requests currently being served.",
		}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		GateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "decisions_total",
			Help:      "Access gate decisions by resource.",
		}, []string{"resource", "decision"}),
		Constructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "constructions_total",
			Help:      "Resource constructions by outcome.",
		}, []string{"resource", "result"}),
		ConstructionTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "construction_seconds",
			Help:      "Time spent building a resource on first use.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"resource"}),
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.RequestsTotal,
		r.RequestDuration,
		r.RequestsInFlight,
		r.RateLimited,
		r.GateDecisions,
		r.Constructions,
		r.ConstructionTime,
		r.LoginAttempts,
	)
	return r
}

// Registerer lets storage engines attach their own collectors.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.reg
}

// Gatherer returns the underlying gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns the /metrics handler.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// ObserveRequest records a finished HTTP request.
func (r *Registry) ObserveRequest(method, resource string, status int, elapsed time.Duration) {
	r.RequestsTotal.WithLabelValues(method, resource, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(method, resource).Observe(elapsed.Seconds())
}

// ObserveDecision implements gate.Observer.
func (r *Registry) ObserveDecision(resource string, d gate.Decision) {
	r.GateDecisions.WithLabelValues(resource, d.String()).Inc()
}

// ObserveConstruction implements registry.Observer.
func (r *Registry) ObserveConstruction(resource string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.Constructions.WithLabelValues(resource, result).Inc()
	r.ConstructionTime.WithLabelValues(resource).Observe(elapsed.Seconds())
}

// ObserveLogin implements service.LoginObserver.
func (r *Registry) ObserveLogin(outcome string) {
	r.LoginAttempts.WithLabelValues(outcome).Inc()
}
