package middleware

import (
	"time"

	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records one Prometheus observation per request.
type MetricsMiddleware struct {
	server *server.Server
}

func NewMetricsMiddleware(s *server.Server) *MetricsMiddleware {
	return &MetricsMiddleware{server: s}
}

// Observe labels requests with the route template, or "unmatched" when
// no route was found.
func (m *MetricsMiddleware) Observe() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				resp, _ := m.server.Errors.Resolve(err)
				status = resp.Status
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			m.server.Metrics.ObserveRequest(c.Request().Method, route, status, time.Since(start))
			return err
		}
	}
}
