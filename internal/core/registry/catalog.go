package registry

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// ServiceFactory builds a resource service.
type ServiceFactory func(ctx context.Context, loc Locator) (any, error)

// ControllerFactory builds a resource controller around its service.
type ControllerFactory func(ctx context.Context, svc any, loc Locator) (http.Handler, error)

// Catalog is the registration table of resource implementations.
type Catalog struct {
	mu          sync.RWMutex
	services    map[string]ServiceFactory
	controllers map[string]ControllerFactory
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		services:    make(map[string]ServiceFactory),
		controllers: make(map[string]ControllerFactory),
	}
}

// RegisterService registers the service factory for id.
// Registering the same id twice panics.
func (c *Catalog) RegisterService(id string, f ServiceFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.services[id]; dup {
		panic(fmt.Sprintf("registry: service %q registered twice", id))
	}
	c.services[id] = f
}

// RegisterController registers the controller factory for id.
// Registering the same id twice panics.
func (c *Catalog) RegisterController(id string, f ControllerFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.controllers[id]; dup {
		panic(fmt.Sprintf("registry: controller %q registered twice", id))
	}
	c.controllers[id] = f
}

func (c *Catalog) service(id string) (ServiceFactory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.services[id]
	return f, ok
}

func (c *Catalog) controller(id string) (ControllerFactory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.controllers[id]
	return f, ok
}

// Controller adapts a typed controller constructor to a ControllerFactory.
func Controller[S any](f func(ctx context.Context, svc S, loc Locator) (http.Handler, error)) ControllerFactory {
	return func(ctx context.Context, svc any, loc Locator) (http.Handler, error) {
		typed, ok := svc.(S)
		if !ok {
			return nil, fmt.Errorf("registry: unexpected service type %T", svc)
		}
		return f(ctx, typed, loc)
	}
}
