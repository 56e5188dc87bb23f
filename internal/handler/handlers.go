package handler

import (
	"github.com/deppfellow/jsongate/internal/admission"
	"github.com/deppfellow/jsongate/internal/server"
)

// RouteTable is the read side of the admission registry. It is read-only
// once the registry is frozen, so handlers may call it concurrently.
type RouteTable interface {
	Strategy() admission.Strategy
	Routes() []admission.Route
	JSONRouteCount() int
}

// Handlers groups all HTTP handlers so the router receives one value.
type Handlers struct {
	Health  *HealthHandler  // Health serves GET /status.
	Metrics *MetricsHandler // Metrics serves GET /metrics.
	V1      *V1Handler      // V1 serves the /api/v1 demo endpoints.
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, routes RouteTable) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s, routes),
		Metrics: NewMetricsHandler(s),
		V1:      NewV1Handler(s),
	}
}
