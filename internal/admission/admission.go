// Package admission decides which requests a handler is allowed to see.
//
// A handler that requires JSON admission only ever runs with a request whose
// Content-Type is exactly application/json and whose body decoded into a
// single JSON value. Everything else is answered with the fixed 400
// rejection before the handler runs.
//
// Two strategies implement the same contract:
//   - Gateway: one middleware installed on the whole server. It looks the
//     target handler up in a MarkerRegistry and validates only marked handlers.
//   - Guard: a wrapper applied per handler at registration time. It always
//     validates and never consults a registry.
//
// Both call the same Core. Handlers always take (c, payload); payload is nil
// when no admission check ran for that request.
package admission

import (
	"github.com/deppfellow/jsongate/internal/errs"
	"github.com/labstack/echo/v4"
)

// HandlerID identifies a handler independently of the routes it is bound to.
// The Registry also uses it as the Echo route name.
type HandlerID string

// Payload is the decoded body handed to a handler after successful admission.
//
// It is created per request and must not be retained after the handler returns.
type Payload struct {
	// Value is the decoded JSON value: map[string]any, []any, string,
	// json.Number, bool or nil (for a literal null).
	Value any

	// Raw is the exact body that was decoded. Typed binding re-decodes from it.
	Raw []byte
}

// HandlerFunc is the handler contract for every route bound through a Registry.
type HandlerFunc func(c echo.Context, payload *Payload) error

// Strategy is an admission strategy: the mechanism that decides when the Core runs.
type Strategy interface {
	// Name is the config value selecting this strategy ("gateway" or "guard").
	Name() string

	// Middleware is installed once on the server with e.Use.
	Middleware() echo.MiddlewareFunc

	// Bind adapts h to Echo without requiring JSON admission.
	Bind(id HandlerID, h HandlerFunc) echo.HandlerFunc

	// RequireJSON adapts h to Echo so it only runs after successful admission.
	RequireJSON(id HandlerID, h HandlerFunc) (echo.HandlerFunc, error)

	// Freeze ends the registration phase. routes are the server's registered routes.
	Freeze(routes []*echo.Route)
}

// Observer receives the outcome of every admission check.
// Implementations must be safe for concurrent use.
type Observer interface {
	Forwarded(c echo.Context, id HandlerID)
	Rejected(c echo.Context, id HandlerID, reason errs.InvalidJSONReason)
}

// NopObserver ignores every outcome.
type NopObserver struct{}

func (NopObserver) Forwarded(echo.Context, HandlerID) {}

func (NopObserver) Rejected(echo.Context, HandlerID, errs.InvalidJSONReason) {}
