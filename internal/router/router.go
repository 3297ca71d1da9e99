// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares, mounts the route table built from the
// handlers and adds the system endpoints next to it.
package router

import (
	"fmt"

	"github.com/Nivhaham/FastApiBasics/internal/handler"
	"github.com/Nivhaham/FastApiBasics/internal/middleware"
	"github.com/Nivhaham/FastApiBasics/internal/route"
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/labstack/echo/v4"
)

// BuildTable registers every application route in a fresh table.
func BuildTable(h *handler.Handlers) (*route.Table, error) {
	table := route.NewTable()
	if err := h.Register(table); err != nil {
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}
	return table, nil
}

// NewRouter wires middlewares, application routes and system routes
// into a ready echo instance.
func NewRouter(s *server.Server, h *handler.Handlers) (*echo.Echo, error) {
	mw := middleware.NewMiddlewares(s)
	h.RegisterErrors(s.Errors)

	table, err := BuildTable(h)
	if err != nil {
		return nil, err
	}
	if err := h.OpenAPI.Build(table); err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI document: %w", err)
	}

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.RequestLogger(),
		mw.Metrics.Observe(),
		mw.RateLimit.Limit(),
		mw.Global.Recover(),
		mw.Global.Secure(),
		mw.Global.CORS(),
	)

	registerSystemRoutes(router, s, h)
	table.Mount(router, s.Metrics)

	s.Logger.Info().
		Int("routes", table.Len()).
		Msg("router initialized")

	return router, nil
}
