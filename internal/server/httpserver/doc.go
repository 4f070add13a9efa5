// Package httpserver provides the HTTP/HTTPS server for restgate.
//
// This package mounts the resource API and the operational endpoints on a
// stdlib net/http mux:
//
//   - Resource API: <endpoint>/<version>/<resource>/...
//   - Health endpoints: /health, /ready, /metrics
//
// Features:
//
//   - TLS with certificates reloaded from disk
//   - Middleware chain: Recover, RequestID, CORS, RateLimit, Metrics, Audit
//   - Graceful shutdown with configurable timeout
package httpserver
