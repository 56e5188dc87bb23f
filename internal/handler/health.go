package handler

import (
	"net/http"
	"time"

	"github.com/deppfellow/jsongate/internal/admission"
	"github.com/deppfellow/jsongate/internal/middleware"
	"github.com/deppfellow/jsongate/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HealthHandler exposes a "system" endpoint that monitors and load balancers
// use to verify the service is alive and serving with the expected admission setup.
type HealthHandler struct {
	Handler
	routes RouteTable
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(s *server.Server, routes RouteTable) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		routes:  routes,
	}
}

// HealthResponse is the body of GET /status.
type HealthResponse struct {
	Status      string         `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
	Environment string         `json:"environment"`
	Admission   AdmissionState `json:"admission"`
}

// AdmissionState summarizes how requests are admitted.
type AdmissionState struct {
	Strategy   string            `json:"strategy"`
	Routes     int               `json:"routes"`
	JSONRoutes int               `json:"json_routes"`
	Table      []admission.Route `json:"table"`
}

// CheckHealth reports service status. It never requires a payload.
func (h *HealthHandler) CheckHealth(c echo.Context, _ *admission.Payload) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	table := h.routes.Routes()

	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Admission: AdmissionState{
			Strategy:   h.routes.Strategy().Name(),
			Routes:     len(table),
			JSONRoutes: h.routes.JSONRouteCount(),
			Table:      table,
		},
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Str("status", response.Status).
		Msg("health check finished")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return errors.Wrap(err, "failed to write JSON response")
	}

	return nil
}
