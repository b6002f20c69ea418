// Package middleware provides HTTP observability middleware for the preview
// server.
//
// # Prometheus Metrics
//
// Prometheus records, per chi route pattern:
//   - velement_http_requests_total: requests by route, method and status
//   - velement_http_request_duration_seconds: handler latency
//   - velement_http_in_flight_requests: requests currently being served
//
//	r := chi.NewRouter()
//	r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
//
// # OpenTelemetry
//
// OpenTelemetry starts one server span per request using the global tracer
// provider and stores it in the request context:
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("preview"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/metrics"
//	    }),
//	))
//
// Both read the route pattern after the handler ran, so they must be
// installed on a chi router.
package middleware
