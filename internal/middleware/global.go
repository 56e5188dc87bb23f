package middleware

import (
	"net/http"

	"github.com/deppfellow/jsongate/internal/errs"
	"github.com/deppfellow/jsongate/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups global middleware and the global error handler
// so they can read config and the logger from *server.Server.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares constructs the middleware bundle.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS returns Echo's CORS middleware configured from server config.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// BodyLimit returns Echo's body limit middleware using admission.body_limit.
// An empty limit yields a pass-through.
//
// Oversized bodies fail while being read, which surfaces as a 413 from the
// admission core instead of a JSON rejection.
func (global *GlobalMiddlewares) BodyLimit() echo.MiddlewareFunc {
	limit := global.server.Config.Admission.BodyLimit
	if limit == "" {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{Limit: limit})
}

// RequestLogger returns Echo's request logger middleware writing one "API"
// line per request through the request-scoped zerolog logger, with level
// chosen by status (5xx error, 4xx warn, otherwise info).
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// When a handler returns an error the final status is only decided
			// later by GlobalErrorHandler, so derive it from the error here.
			// Reference: https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				var httpErr *errs.HTTPError
				var echoErr *echo.HTTPError

				if errors.As(v.Error, &httpErr) {
					statusCode = httpErr.Status
				} else if errors.As(v.Error, &echoErr) {
					statusCode = echoErr.Code
				} else {
					statusCode = http.StatusInternalServerError
				}
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover returns Echo's panic recovery middleware.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns Echo's secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the final error funnel for the HTTP server.
//
// Every error returned by a handler or middleware ends up here and is
// translated into the HTTPError shape. An InvalidJSONRequestError keeps the
// fixed rejection body. The original error is logged with its stack.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	originalErr := err

	var httpErr *errs.HTTPError
	var rejection *errs.InvalidJSONRequestError
	var echoErr *echo.HTTPError

	// Route 404s come from Echo; convert them into our NotFound shape.
	if !errors.As(err, &httpErr) && errors.As(err, &echoErr) && echoErr.Code == http.StatusNotFound {
		err = errs.NewNotFoundError("Route not found", false, nil)
	}

	logger := *GetLogger(c)

	if errors.As(err, &rejection) {
		logger.Warn().
			Err(originalErr).
			Int("status", rejection.Status).
			Str("reason", string(rejection.Reason)).
			Msg(errs.InvalidJSONRequestMessage)

		if !c.Response().Committed {
			_ = c.JSON(rejection.Status, rejection.Response())
		}
		return
	}

	var status int
	var code string
	var message string
	var fieldErrors []errs.FieldError

	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Status
		code = httpErr.Code
		message = httpErr.Message
		fieldErrors = httpErr.Errors

	case errors.As(err, &echoErr):
		status = echoErr.Code
		code = errs.MakeUpperCaseWithUnderscores(http.StatusText(status))

		// Echo error messages can be any type; normalize to string.
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(echoErr.Code)
		}

	default:
		// Unknown errors never leak details.
		status = http.StatusInternalServerError
		code = errs.MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError))
		message = http.StatusText(http.StatusInternalServerError)
	}

	logger.Error().Stack().
		Err(originalErr).
		Int("status", status).
		Str("error_code", code).
		Msg(message)

	if !c.Response().Committed {
		_ = c.JSON(status, errs.HTTPError{
			Code:     code,
			Message:  message,
			Status:   status,
			Override: httpErr != nil && httpErr.Override,
			Errors:   fieldErrors,
		})
	}
}
