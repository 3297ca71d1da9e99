package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Nivhaham/FastApiBasics/internal/middleware"
	"github.com/Nivhaham/FastApiBasics/internal/route"
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/Nivhaham/FastApiBasics/internal/service"
	"github.com/labstack/echo/v4"
)

// HealthHandler exposes a "system" endpoint that external systems can
// use to verify the service is alive.
type HealthHandler struct {
	Handler

	table *route.Table
}

// NewHealthHandler constructs a HealthHandler with access to shared app dependencies.
func NewHealthHandler(s *server.Server, services *service.Services) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s, services),
	}
}

// CheckHealth returns system health status and checks.
//
// It returns 200 when routes are mounted and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	routes := 0
	if h.table != nil {
		routes = h.table.Len()
	}

	checks := map[string]interface{}{
		"router": map[string]interface{}{
			"status": "healthy",
			"routes": routes,
		},
		"new_relic": map[string]interface{}{
			"enabled": h.server.LoggerService.GetApplication() != nil,
		},
	}

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"uptime":      time.Since(h.server.StartedAt).Round(time.Second).String(),
		"checks":      checks,
	}

	if routes == 0 {
		response["status"] = "unhealthy"
		checks["router"] = map[string]interface{}{
			"status": "unhealthy",
			"routes": 0,
		}

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed: no routes mounted")

		if app := h.server.LoggerService.GetApplication(); app != nil {
			app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
				"check_type": "router",
				"operation":  "health_check",
				"error_type": "no_routes",
			})
		}

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
