package router

import (
	"net/http"

	"github.com/deppfellow/jsongate/internal/admission"
	"github.com/deppfellow/jsongate/internal/handler"
)

// registerSystemRoutes registers endpoints that are not part of the API itself.
func registerSystemRoutes(r *admission.Registry, h *handler.Handlers) error {
	// Used by monitors and load balancers. Never requires a payload.
	if err := r.Register(http.MethodGet, "/status", "system.status", h.Health.CheckHealth); err != nil {
		return err
	}

	return r.Register(http.MethodGet, "/metrics", "system.metrics", h.Metrics.Serve())
}
