// Package metric exposes restgate metrics in Prometheus format.
//
// A Registry owns its own prometheus.Registry so tests and embedded
// servers never collide on the global default registerer. It also
// implements the observer hooks of the registry, gate and login
// service, so wiring metrics is a matter of passing the Registry to
// their options.
//
// Metrics are served by Handler, mounted at /metrics by the HTTP server.
package metric
