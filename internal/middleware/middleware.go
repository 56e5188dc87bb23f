// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as
// request ids, request-scoped logging, New Relic tracing, CORS, panic
// recovery, the global error handler and admission telemetry.
package middleware
