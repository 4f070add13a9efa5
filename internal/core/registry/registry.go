package registry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yndnr/restgate-go/internal/core/domain"
	"github.com/yndnr/restgate-go/internal/core/routing"
	"github.com/yndnr/restgate-go/pkg/cmap"
)

// Locator gives factories and resources access to other resources.
type Locator interface {
	Service(ctx context.Context, name string) (any, error)
	Controller(ctx context.Context, name string) (http.Handler, error)
}

// Observer is notified of every construction attempt.
type Observer interface {
	ObserveConstruction(resource string, elapsed time.Duration, err error)
}

// Entry is a materialized resource.
type Entry struct {
	Name       domain.ResourceName
	Service    any
	Controller http.Handler
}

// Registry is the process-wide resource registry.
type Registry struct {
	mapping  *routing.Mapping
	catalog  *Catalog
	entries  *cmap.Map[domain.ResourceName, *Entry]
	flights  singleflight.Group
	logger   *slog.Logger
	observer Observer
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithObserver sets the construction observer.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		r.observer = o
	}
}

// New creates a registry over mapping and catalog.
func New(mapping *routing.Mapping, catalog *Catalog, opts ...Option) *Registry {
	r := &Registry{
		mapping: mapping,
		catalog: catalog,
		entries: cmap.New[domain.ResourceName, *Entry](),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the entry for name, constructing it on first use.
// name may carry the ".service" or ".controller" suffix.
func (r *Registry) Resolve(ctx context.Context, name string) (*Entry, error) {
	rn := domain.ParseResourceName(name)

	if e, ok := r.entries.Get(rn); ok {
		return e, nil
	}

	impl, ok := r.mapping.Lookup(rn)
	if !ok {
		return nil, domain.ErrResourceNotFound
	}

	// Construction must not be aborted by the request that triggered it.
	buildCtx := context.WithoutCancel(ctx)

	v, err, _ := r.flights.Do(string(rn), func() (any, error) {
		if e, ok := r.entries.Get(rn); ok {
			return e, nil
		}

		start := time.Now()
		e, err := r.construct(buildCtx, rn, impl)
		if r.observer != nil {
			r.observer.ObserveConstruction(string(rn), time.Since(start), err)
		}
		if err != nil {
			r.logger.Error("resource construction failed",
				"resource", rn,
				"impl", impl,
				"error", err,
			)
			return nil, err
		}

		r.entries.Set(rn, e)
		r.logger.Debug("resource constructed",
			"resource", rn,
			"impl", impl,
			"elapsed", time.Since(start),
		)
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Entry), nil
}

func (r *Registry) construct(ctx context.Context, rn domain.ResourceName, impl string) (*Entry, error) {
	serviceID := r.mapping.ServiceID(impl)
	newService, ok := r.catalog.service(serviceID)
	if !ok {
		return nil, domain.ErrFactoryMissing.WithDetails(serviceID)
	}
	controllerID := r.mapping.ControllerID(impl)
	newController, ok := r.catalog.controller(controllerID)
	if !ok {
		return nil, domain.ErrFactoryMissing.WithDetails(controllerID)
	}

	svc, err := newService(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", serviceID, err)
	}
	ctrl, err := newController(ctx, svc, r)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", controllerID, err)
	}

	return &Entry{Name: rn, Service: svc, Controller: ctrl}, nil
}

// Service returns the service of the named resource.
func (r *Registry) Service(ctx context.Context, name string) (any, error) {
	e, err := r.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.Service, nil
}

// Controller returns the controller of the named resource. A controller
// cannot exist without its service, so a miss resolves the whole pair.
func (r *Registry) Controller(ctx context.Context, name string) (http.Handler, error) {
	e, err := r.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.Controller, nil
}

// Resolved reports whether name has been materialized.
func (r *Registry) Resolved(name string) bool {
	return r.entries.Has(domain.ParseResourceName(name))
}

// Len returns the number of materialized resources.
func (r *Registry) Len() int {
	return r.entries.Count()
}

// Names returns the materialized resource names in sorted order.
func (r *Registry) Names() []string {
	keys := r.entries.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	sort.Strings(names)
	return names
}

// ServiceAs resolves the named service and asserts it to S.
func ServiceAs[S any](ctx context.Context, loc Locator, name string) (S, error) {
	var zero S
	v, err := loc.Service(ctx, name)
	if err != nil {
		return zero, err
	}
	s, ok := v.(S)
	if !ok {
		return zero, fmt.Errorf("registry: service %q has unexpected type %T", name, v)
	}
	return s, nil
}

// ControllerAs resolves the named controller and asserts it to C.
func ControllerAs[C any](ctx context.Context, loc Locator, name string) (C, error) {
	var zero C
	v, err := loc.Controller(ctx, name)
	if err != nil {
		return zero, err
	}
	c, ok := v.(C)
	if !ok {
		return zero, fmt.Errorf("registry: controller %q has unexpected type %T", name, v)
	}
	return c, nil
}

var _ Locator = (*Registry)(nil)
