package handler

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/restgate-go/internal/core/gate"
	"github.com/yndnr/restgate-go/internal/core/registry"
	"github.com/yndnr/restgate-go/internal/core/routing"
)

// OtherResource labels requests whose path names no mapped resource.
const OtherResource = "other"

// Dispatcher routes API requests to resource controllers.
type Dispatcher struct {
	version string
	mapping *routing.Mapping
	gate    *gate.Gate
	locator registry.Locator
	resp    *Responder
	logger  *slog.Logger
}

// NewDispatcher creates a Dispatcher for paths carrying the version marker.
func NewDispatcher(version string, mapping *routing.Mapping, g *gate.Gate, loc registry.Locator, resp *Responder, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		version: version,
		mapping: mapping,
		gate:    g,
		locator: loc,
		resp:    resp,
		logger:  logger,
	}
}

// ServeHTTP implements http.Handler.
//
// The resource is resolved from the path, the gate runs, and only then is
// the controller looked up, so a rejected request never constructs a
// resource.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, err := routing.ResolvePath(r.URL.Path, d.version)
	if err != nil {
		d.resp.WriteError(w, r, err)
		return
	}

	ctx := r.Context()
	res, err := d.gate.Check(ctx, gate.Request{
		Resource: name,
		Method:   r.Method,
		Token:    r.Header.Get(gate.HeaderToken),
		RemoteIP: ClientIP(r),
	})
	if err != nil {
		d.logger.Debug("request rejected",
			"resource", name,
			"method", r.Method,
			"error", err,
		)
		d.resp.WriteError(w, r, err)
		return
	}
	if res.User != nil {
		ctx = gate.WithUser(ctx, res.User)
	}

	ctrl, err := d.locator.Controller(ctx, string(name))
	if err != nil {
		d.resp.WriteError(w, r, err)
		return
	}

	sub := r.Clone(ctx)
	sub.URL.Path = "/" + routing.Subpath(r.URL.Path, d.version)
	sub.URL.RawPath = ""
	ctrl.ServeHTTP(w, sub)
}

// ResourceLabel returns the mapped resource named by path, or
// OtherResource. It keeps metric label values bounded.
func (d *Dispatcher) ResourceLabel(path string) string {
	name, err := routing.ResolvePath(path, d.version)
	if err != nil {
		return OtherResource
	}
	if _, ok := d.mapping.Lookup(name); !ok {
		return OtherResource
	}
	return string(name)
}
