package handler

import (
	"net/http"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

// routeFunc handles one controller endpoint. A returned error is written
// by the router.
type routeFunc func(w http.ResponseWriter, r *http.Request) error

var routeMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
}

// router serves the endpoints of one controller. Paths are relative to the
// resource: "GET /{id}" on the customers controller matches
// /api/v1/customers/42.
type router struct {
	mux  *http.ServeMux
	resp *Responder
}

func newRouter(resp *Responder) *router {
	return &router{mux: http.NewServeMux(), resp: resp}
}

func (rt *router) handle(pattern string, fn routeFunc) {
	rt.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			rt.resp.WriteError(w, r, err)
		}
	})
}

// ServeHTTP implements http.Handler. Unmatched requests get
// domain.ErrMethodNotAllowed when the path exists under another method and
// domain.ErrEndpointNotFound otherwise.
func (rt *router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := rt.mux.Handler(r); pattern != "" {
		rt.mux.ServeHTTP(w, r)
		return
	}

	for _, m := range routeMethods {
		if m == r.Method {
			continue
		}
		probe := r.Clone(r.Context())
		probe.Method = m
		if _, pattern := rt.mux.Handler(probe); pattern != "" {
			rt.resp.WriteError(w, r, domain.ErrMethodNotAllowed.WithDetails(r.Method+" "+r.URL.Path))
			return
		}
	}
	rt.resp.WriteError(w, r, domain.ErrEndpointNotFound.WithDetails(r.Method+" "+r.URL.Path))
}
