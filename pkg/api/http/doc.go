// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes endpoints for:
//   - Key-value state access (get, save, delete)
//   - Health checks (liveness, readiness)
//   - Prometheus metrics
//
// All state operations delegate to the single StateClient committed at
// startup; this layer holds no state of its own and is the only place
// that maps backend outcomes to HTTP status codes.
package http
