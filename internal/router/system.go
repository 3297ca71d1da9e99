package router

import (
	"github.com/Nivhaham/FastApiBasics/internal/handler"
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers "system" endpoints that are not part of
// business logic. They stay out of the route table and the OpenAPI
// document.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	// Health status endpoint (used by Kubernetes/monitors).
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/openapi.json", h.OpenAPI.ServeJSON)
	r.GET("/openapi.yaml", h.OpenAPI.ServeYAML)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	r.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
}
