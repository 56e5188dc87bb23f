package admission

import "github.com/labstack/echo/v4"

// StrategyGuard is the config name of the Guard strategy.
const StrategyGuard = "guard"

// Guard is the wrapper-based admission strategy.
//
// Which handlers are validated is decided entirely by which ones were
// wrapped at registration time; there is no runtime lookup.
type Guard struct {
	core *Core
}

// NewGuard creates a Guard running core.
func NewGuard(core *Core) *Guard {
	return &Guard{core: core}
}

func (g *Guard) Name() string {
	return StrategyGuard
}

// Middleware is a pass-through; the guard does its work inside wrapped handlers.
func (g *Guard) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return next
	}
}

// Wrap returns a handler that runs the admission check on every invocation.
func (g *Guard) Wrap(id HandlerID, h HandlerFunc) HandlerFunc {
	return func(c echo.Context, _ *Payload) error {
		return g.core.Admit(c, id, h)
	}
}

// Bind adapts h without validation; it always receives a nil payload.
func (g *Guard) Bind(_ HandlerID, h HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h(c, nil)
	}
}

// RequireJSON wraps h and binds the result.
func (g *Guard) RequireJSON(id HandlerID, h HandlerFunc) (echo.HandlerFunc, error) {
	return g.Bind(id, g.Wrap(id, h)), nil
}

func (g *Guard) Freeze([]*echo.Route) {}
