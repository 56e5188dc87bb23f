package admission

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Route describes one binding made through a Registry.
type Route struct {
	Method       string    `json:"method"`
	Path         string    `json:"path"`
	ID           HandlerID `json:"id"`
	RequiresJSON bool      `json:"requires_json"`
}

// Registry binds handlers to Echo routes through an admission Strategy.
//
// Registration is single-threaded bootstrap work. Freeze must be called
// before the server accepts traffic; after that every Register call fails.
// A HandlerID binds exactly one route.
type Registry struct {
	echo     *echo.Echo
	strategy Strategy
	routes   []Route
	ids      map[HandlerID]bool
	frozen   bool
}

// NewRegistry creates a Registry binding routes on e. The strategy's
// middleware is not installed here; the router decides where it sits in the chain.
func NewRegistry(e *echo.Echo, strategy Strategy) *Registry {
	return &Registry{
		echo:     e,
		strategy: strategy,
		ids:      make(map[HandlerID]bool),
	}
}

// Strategy returns the admission strategy in use.
func (r *Registry) Strategy() Strategy {
	return r.strategy
}

// Register binds h to method + path without requiring JSON admission.
func (r *Registry) Register(method, path string, id HandlerID, h HandlerFunc) error {
	if err := r.check(method, path, id); err != nil {
		return err
	}

	r.add(method, path, id, r.strategy.Bind(id, h), false)
	return nil
}

// RegisterJSON binds h to method + path so that it only runs with an admitted payload.
func (r *Registry) RegisterJSON(method, path string, id HandlerID, h HandlerFunc) error {
	if err := r.check(method, path, id); err != nil {
		return err
	}

	bound, err := r.strategy.RequireJSON(id, h)
	if err != nil {
		return errors.Wrapf(err, "register %s %s", method, path)
	}

	r.add(method, path, id, bound, true)
	return nil
}

// Freeze ends registration and hands the final route table to the strategy.
func (r *Registry) Freeze() {
	if r.frozen {
		return
	}
	r.frozen = true
	r.strategy.Freeze(r.echo.Routes())
}

// Routes returns a copy of every binding made so far, in registration order.
func (r *Registry) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// JSONRouteCount returns how many routes require JSON admission.
func (r *Registry) JSONRouteCount() int {
	n := 0
	for _, route := range r.routes {
		if route.RequiresJSON {
			n++
		}
	}
	return n
}

func (r *Registry) check(method, path string, id HandlerID) error {
	if r.frozen {
		return errors.Wrapf(ErrRegistryFrozen, "register %s %s", method, path)
	}
	if method == "" || !strings.HasPrefix(path, "/") {
		return errors.Errorf("invalid route %q %q: method required and path must start with /", method, path)
	}
	if id == "" {
		return errors.Errorf("route %s %s: handler id required", method, path)
	}
	// One id per route; the gateway marks ids, not routes.
	if r.ids[id] {
		return errors.Errorf("route %s %s: handler id %q is already bound", method, path, id)
	}
	return nil
}

func (r *Registry) add(method, path string, id HandlerID, h echo.HandlerFunc, requiresJSON bool) {
	route := r.echo.Add(method, path, h)
	// The gateway resolves requests to handlers through the route name.
	route.Name = string(id)
	r.ids[id] = true

	r.routes = append(r.routes, Route{
		Method:       method,
		Path:         path,
		ID:           id,
		RequiresJSON: requiresJSON,
	})
}

// NewStrategy returns the strategy registered under name.
func NewStrategy(name string, core *Core) (Strategy, error) {
	switch name {
	case StrategyGateway:
		return NewGateway(core), nil
	case StrategyGuard:
		return NewGuard(core), nil
	default:
		return nil, errors.Errorf("unknown admission strategy %q", name)
	}
}
