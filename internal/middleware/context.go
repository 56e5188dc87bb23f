package middleware

import (
	"context"

	"github.com/deppfellow/jsongate/internal/logger"
	"github.com/deppfellow/jsongate/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// LoggerKey is the Echo context key of the request-scoped logger.
const LoggerKey = "logger"

// loggerContextKey is the context.Context key of the request-scoped logger.
type loggerContextKey struct{}

// ContextEnhancer builds a request-scoped logger carrying request_id,
// method, route path, ip and New Relic trace ids, and stores it in both the
// Echo context and the request's context.Context.
type ContextEnhancer struct {
	server *server.Server
}

// NewContextEnhancer creates a new ContextEnhancer.
func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext returns the Echo middleware. It must run after RequestID
// and the New Relic middleware so both are available.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()). // route template, not the raw URL
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			c.Set(LoggerKey, &contextLogger)

			// Non-Echo code that only sees context.Context can use LoggerFromContext.
			ctx := context.WithValue(c.Request().Context(), loggerContextKey{}, &contextLogger)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetLogger retrieves the request-scoped logger from the Echo context.
//
// If EnhanceContext didn't run, it returns a no-op logger.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	// The request may carry one even when the Echo context was rebuilt.
	return LoggerFromContext(c.Request().Context())
}

// LoggerFromContext retrieves the request-scoped logger from ctx, or a no-op logger.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(*zerolog.Logger); ok {
		return logger
	}

	logger := zerolog.Nop()
	return &logger
}
