// Package middleware provides production-grade middleware for Strada
// applications.
//
// This package includes:
//   - Prometheus metrics middleware (HTTP level)
//   - OpenTelemetry distributed tracing middleware (HTTP level)
//   - Request logging middleware (pipeline level)
//
// # Two middleware shapes
//
// Metrics and Tracing wrap the whole HTTP handler, so they observe every
// request including 404s and requests answered before the route pipeline
// runs:
//
//	mux.Use(middleware.Metrics(middleware.WithRegistry(registry)))
//	mux.Use(middleware.Tracing())
//
// Logging is a pipeline middleware: it participates in the route
// dispatch contract and observes the final response through a transform.
// Register it as global middleware:
//
//	cfg := server.DefaultServerConfig().WithGlobal(middleware.Logging())
//
// # Prometheus Metrics
//
// The metrics middleware labels by route pattern rather than raw path,
// so /product/42 and /product/43 share one time series:
//   - strada_http_requests_total: Requests by route, method, and status
//   - strada_http_request_duration_seconds: Duration histogram
//   - strada_http_requests_in_flight: In-flight gauge
//   - strada_http_response_size_bytes: Response size histogram
//
// # OpenTelemetry
//
// The tracing middleware opens one server span per request and injects
// the span context into the request context, so database drivers and
// HTTP clients inherit the trace:
//
//	func handler(c *router.Ctx) (*router.Response, error) {
//	    row := db.QueryRowContext(c.Context(), "SELECT ...")
//	    ...
//	}
package middleware
