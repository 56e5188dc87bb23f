package middleware

import (
	"github.com/deppfellow/jsongate/internal/server"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Middlewares groups all middleware components used by the HTTP server,
// built once with the shared dependencies wired in.
type Middlewares struct {
	// Global holds CORS, request logging, recovery, secure headers,
	// body limit and the global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer enriches each request with a request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// Tracing provides New Relic middleware and custom transaction attributes.
	Tracing *TracingMiddleware

	// Admission logs and records JSON admission outcomes.
	Admission *AdmissionTelemetry
}

// NewMiddlewares constructs all middleware components.
//
// When New Relic is not configured nrApp is nil and the New Relic parts
// degrade into no-ops.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.NewRelicApplicationEnabled() {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		Admission:       NewAdmissionTelemetry(s, nrApp),
	}
}
