package handler

import (
	"time"

	"github.com/deppfellow/jsongate/internal/admission"
	"github.com/deppfellow/jsongate/internal/middleware"
	"github.com/deppfellow/jsongate/internal/server"
	"github.com/deppfellow/jsongate/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler is the base handler type that holds shared application dependencies.
//
// Concrete handlers embed it to reach config and logging through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// --- Generic handler plumbing ------------------------------------------------

// HandlerFunc is an endpoint working on the admitted payload directly.
type HandlerFunc[Res any] func(c echo.Context, payload *admission.Payload) (Res, error)

// HandlerFuncNoContent is an endpoint that writes no response body.
type HandlerFuncNoContent func(c echo.Context, payload *admission.Payload) error

// TypedHandlerFunc is an endpoint receiving the payload bound into Req.
//
// Req is usually a pointer to a struct with validator tags.
type TypedHandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// ResponseHandler defines how a successful result is written to the response
// and which New Relic attributes belong to that response type.
type ResponseHandler interface {
	// Handle writes the HTTP response for the given result.
	Handle(c echo.Context, result interface{}) error

	// GetOperation returns an operation name used for structured logging.
	GetOperation() string

	// AddAttributes attaches New Relic attributes based on response type and/or result.
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is already set by tracing middleware (EnhanceTracing).
}

// NoContentResponseHandler writes responses with no body (typically 204).
type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "handler_no_content"
}

func (h NoContentResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {}

func passPayload(payload *admission.Payload) (*admission.Payload, error) {
	return payload, nil
}

// handleRequest is the shared execution pipeline for all handlers.
//
// It centralizes payload binding, structured logging, New Relic attributes,
// timing and response writing. Errors are returned untouched so the global
// error handler formats them.
func handleRequest[Req any](
	c echo.Context,
	payload *admission.Payload,
	bind func(payload *admission.Payload) (Req, error),
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	method := c.Request().Method
	route := c.Path()

	// Set by nrecho; nil when New Relic is disabled.
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
		txn.AddAttribute("payload.present", payload != nil)
		responseHandler.AddAttributes(txn, nil)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", method).
		Str("route", route).
		Bool("payload_present", payload != nil).
		Logger()

	logger.Info().Msg("handling request")

	// ---------------- Binding phase ------------------------------------------
	bindStart := time.Now()

	req, err := bind(payload)
	bindDuration := time.Since(bindStart)
	if err != nil {
		logger.Error().
			Err(err).
			Dur("validation_duration", bindDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", bindDuration.Milliseconds())
		}

		return err
	}

	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", bindDuration.Milliseconds())
	}

	// ---------------- Handler execution phase --------------------------------
	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", bindDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle wraps an endpoint that works on the raw admitted payload and answers
// with a JSON body and the given status.
//
//	registry.RegisterJSON(http.MethodPost, "/x", "v1.x", handler.Handle(h, fn, http.StatusOK))
func Handle[Res any](h Handler, handler HandlerFunc[Res], status int) admission.HandlerFunc {
	return func(c echo.Context, payload *admission.Payload) error {
		return handleRequest(c, payload, passPayload, func(c echo.Context, p *admission.Payload) (interface{}, error) {
			return handler(c, p)
		}, JSONResponseHandler{status: status})
	}
}

// HandleNoContent wraps an endpoint that returns no body.
func HandleNoContent(h Handler, handler HandlerFuncNoContent, status int) admission.HandlerFunc {
	return func(c echo.Context, payload *admission.Payload) error {
		return handleRequest(c, payload, passPayload, func(c echo.Context, p *admission.Payload) (interface{}, error) {
			return nil, handler(c, p)
		}, NoContentResponseHandler{status: status})
	}
}

// HandleTyped wraps an endpoint whose payload is bound into a fresh Req and
// validated before the endpoint runs. newReq is called once per request.
//
// The route must require JSON admission; a nil payload is a wiring error.
func HandleTyped[Req validation.Validatable, Res any](
	h Handler,
	handler TypedHandlerFunc[Req, Res],
	status int,
	newReq func() Req,
) admission.HandlerFunc {
	bind := func(payload *admission.Payload) (Req, error) {
		req := newReq()
		if err := validation.BindPayload(payload, req); err != nil {
			var zero Req
			return zero, err
		}
		return req, nil
	}

	return func(c echo.Context, payload *admission.Payload) error {
		return handleRequest(c, payload, bind, func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}
