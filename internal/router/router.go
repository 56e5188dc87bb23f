// Package router builds the Echo instance: global middleware, the admission
// strategy and every route, bound through the admission registry.
package router

import (
	"github.com/deppfellow/jsongate/internal/admission"
	"github.com/deppfellow/jsongate/internal/handler"
	"github.com/deppfellow/jsongate/internal/middleware"
	"github.com/deppfellow/jsongate/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// NewRouter returns a ready-to-serve Echo instance and the frozen registry
// describing its routes.
//
// Middleware order matters:
//  1. RequestID first so everything after it can log the id.
//  2. New Relic starts the transaction; EnhanceTracing decorates it.
//  3. ContextEnhancer builds the request logger from both.
//  4. RequestLogger, Recover, Secure, CORS, BodyLimit.
//  5. The admission strategy last, so a gateway rejection is still logged
//     and traced and the body limit applies to the body it reads.
func NewRouter(s *server.Server) (*echo.Echo, *admission.Registry, error) {
	mw := middleware.NewMiddlewares(s)

	core := admission.NewCore(mw.Admission)
	strategy, err := admission.NewStrategy(s.Config.Admission.Strategy, core)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build admission strategy")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	e.Use(
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.RequestLogger(),
		mw.Global.Recover(),
		mw.Global.Secure(),
		mw.Global.CORS(),
		mw.Global.BodyLimit(),
		strategy.Middleware(),
	)

	registry := admission.NewRegistry(e, strategy)
	h := handler.NewHandlers(s, registry)

	if err := registerSystemRoutes(registry, h); err != nil {
		return nil, nil, err
	}
	if err := registerV1Routes(registry, h); err != nil {
		return nil, nil, err
	}

	registry.Freeze()

	s.Logger.Info().
		Str("strategy", strategy.Name()).
		Int("routes", len(registry.Routes())).
		Int("json_routes", registry.JSONRouteCount()).
		Msg("router ready")

	return e, registry, nil
}
