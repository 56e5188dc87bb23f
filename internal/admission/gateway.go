package admission

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// StrategyGateway is the config name of the Gateway strategy.
const StrategyGateway = "gateway"

// payloadKey stores the admitted payload in the Echo context between the
// gateway middleware and the bound handler.
const payloadKey = "admission.payload"

var errGatewayNotFrozen = errors.New("admission gateway received a request before registration was frozen")

// Gateway is the marker-based admission strategy.
//
// Its middleware sees every request, resolves the matched route to the
// handler bound there and validates only when that handler is marked.
type Gateway struct {
	core    *Core
	markers *MarkerRegistry

	// routes maps "METHOD /route/path" to the handler bound there.
	// Written once by Freeze.
	routes map[string]HandlerID
}

// NewGateway creates a Gateway with an empty MarkerRegistry.
func NewGateway(core *Core) *Gateway {
	return &Gateway{
		core:    core,
		markers: NewMarkerRegistry(),
		routes:  make(map[string]HandlerID),
	}
}

func (g *Gateway) Name() string {
	return StrategyGateway
}

// Markers exposes the registry for inspection (health reports, CLI).
func (g *Gateway) Markers() *MarkerRegistry {
	return g.markers
}

// Mark flags id as requiring JSON admission. It must happen before Freeze.
func (g *Gateway) Mark(id HandlerID) error {
	return g.markers.Mark(id)
}

// Middleware returns the global filter. Install it once with e.Use so it
// runs after routing and c.Path() holds the matched route.
func (g *Gateway) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !g.markers.Frozen() {
				return errGatewayNotFrozen
			}

			id, ok := g.routes[routeKey(c.Request().Method, c.Path())]
			if !ok || !g.markers.RequiresJSON(id) {
				// Unmarked: the request goes through untouched.
				return next(c)
			}

			return g.core.Admit(c, id, func(c echo.Context, payload *Payload) error {
				c.Set(payloadKey, payload)
				return next(c)
			})
		}
	}
}

// Bind adapts h so it receives whatever payload the middleware admitted
// (nil for unmarked handlers).
func (g *Gateway) Bind(_ HandlerID, h HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h(c, PayloadFromContext(c))
	}
}

// RequireJSON marks id and binds h.
func (g *Gateway) RequireJSON(id HandlerID, h HandlerFunc) (echo.HandlerFunc, error) {
	if err := g.Mark(id); err != nil {
		return nil, err
	}
	return g.Bind(id, h), nil
}

// Freeze records which handler serves each route, using the route name set
// by the Registry, then freezes the markers.
func (g *Gateway) Freeze(routes []*echo.Route) {
	if g.markers.Frozen() {
		return
	}
	for _, route := range routes {
		if route.Name == "" {
			continue
		}
		g.routes[routeKey(route.Method, route.Path)] = HandlerID(route.Name)
	}
	g.markers.Freeze()
}

// PayloadFromContext returns the payload admitted for this request, or nil.
func PayloadFromContext(c echo.Context) *Payload {
	payload, _ := c.Get(payloadKey).(*Payload)
	return payload
}

func routeKey(method, path string) string {
	return method + " " + path
}
