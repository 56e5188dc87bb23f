package middleware

import (
	"github.com/deppfellow/jsongate/internal/admission"
	"github.com/deppfellow/jsongate/internal/errs"
	"github.com/deppfellow/jsongate/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus"
)

// AdmissionTelemetry reports JSON admission outcomes. It is the
// admission.Observer wired into the admission core.
//
// Every outcome is logged with the request-scoped logger, counted in
// jsongate_admission_requests_total and added to the current New Relic
// transaction. Rejections are also recorded as "AdmissionRejected" custom events.
type AdmissionTelemetry struct {
	server *server.Server
	nrApp  *newrelic.Application

	requests *prometheus.CounterVec
}

var _ admission.Observer = (*AdmissionTelemetry)(nil)

// NewAdmissionTelemetry constructs AdmissionTelemetry and registers its
// counter on s.Metrics. nrApp may be nil.
func NewAdmissionTelemetry(s *server.Server, nrApp *newrelic.Application) *AdmissionTelemetry {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jsongate",
		Subsystem: "admission",
		Name:      "requests_total",
		Help:      "JSON admission checks by handler, outcome and rejection reason",
	}, []string{"handler", "outcome", "reason"})

	if s.Metrics != nil {
		s.Metrics.MustRegister(requests)
	}

	return &AdmissionTelemetry{
		server:   s,
		nrApp:    nrApp,
		requests: requests,
	}
}

// Forwarded records a request that passed admission.
func (a *AdmissionTelemetry) Forwarded(c echo.Context, id admission.HandlerID) {
	GetLogger(c).Debug().
		Str("handler_id", string(id)).
		Str("admission", "forwarded").
		Msg("request admitted")

	a.requests.WithLabelValues(string(id), "forwarded", "").Inc()

	if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
		txn.AddAttribute("admission.handler", string(id))
		txn.AddAttribute("admission.status", "forwarded")
	}
}

// Rejected records a request answered with the 400 rejection.
func (a *AdmissionTelemetry) Rejected(c echo.Context, id admission.HandlerID, reason errs.InvalidJSONReason) {
	GetLogger(c).Warn().
		Str("handler_id", string(id)).
		Str("admission", "rejected").
		Str("reason", string(reason)).
		Str("content_type", c.Request().Header.Get(echo.HeaderContentType)).
		Msg("request rejected by JSON admission")

	a.requests.WithLabelValues(string(id), "rejected", string(reason)).Inc()

	if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
		txn.AddAttribute("admission.handler", string(id))
		txn.AddAttribute("admission.status", "rejected")
		txn.AddAttribute("admission.reason", string(reason))
	}

	if a.nrApp != nil {
		a.nrApp.RecordCustomEvent("AdmissionRejected", map[string]interface{}{
			"handler_id": string(id),
			"reason":     string(reason),
			"strategy":   a.server.Config.Admission.Strategy,
		})
	}
}
