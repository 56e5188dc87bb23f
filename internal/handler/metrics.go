package handler

import (
	"github.com/deppfellow/jsongate/internal/admission"
	"github.com/deppfellow/jsongate/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler serves the server's Prometheus registry.
type MetricsHandler struct {
	Handler
}

// NewMetricsHandler constructs a MetricsHandler.
func NewMetricsHandler(s *server.Server) *MetricsHandler {
	return &MetricsHandler{Handler: NewHandler(s)}
}

// Serve returns the /metrics handler.
func (h *MetricsHandler) Serve() admission.HandlerFunc {
	exposition := promhttp.HandlerFor(h.server.Metrics, promhttp.HandlerOpts{})

	return func(c echo.Context, _ *admission.Payload) error {
		exposition.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}
