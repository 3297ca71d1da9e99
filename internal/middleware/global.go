package middleware

import (
	"net/http"

	"github.com/Nivhaham/FastApiBasics/internal/errs"
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// KindRouter labels errors raised by echo itself: unmatched routes,
// wrong methods, oversized bodies and similar.
const KindRouter = "router"

// GlobalMiddlewares groups “global” middleware and the global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares constructs the middleware bundle and teaches the
// server's error mapper about echo's own errors.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	errs.Handle(s.Errors, KindRouter, routerError)

	return &GlobalMiddlewares{
		server: s,
	}
}

// routerError converts *echo.HTTPError into the service's error shape.
func routerError(e *echo.HTTPError) *errs.HTTPError {
	switch e.Code {
	case http.StatusNotFound:
		return errs.NewNotFoundError("Route not found", false, nil)
	case http.StatusMethodNotAllowed:
		return errs.NewMethodNotAllowedError("Method not allowed")
	}

	message := http.StatusText(e.Code)
	if msg, ok := e.Message.(string); ok && msg != "" {
		message = msg
	}

	resp := errs.NewHTTPError(e.Code, message)
	resp.Override = e.Code < http.StatusInternalServerError
	return resp
}

// CORS returns Echo’s CORS middleware configured by the server config.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger logs one “API” line per request, with severity based on
// status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// The global error handler has not written the response yet
			// when a handler fails, so v.Status would still read 200.
			// Reference: https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				resp, _ := global.server.Errors.Resolve(v.Error)
				statusCode = resp.Status
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover returns Echo’s panic recovery middleware. Panics reach the
// global error handler as plain errors and become 500 responses.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns Echo’s secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the final error funnel for the entire HTTP server.
//
// Every error returned by a handler, dependency, binder or echo itself
// ends up here. The server's Mapper picks the response; this function
// only logs, counts and writes it.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	originalErr := err

	resp, kind := global.server.Errors.Resolve(err)

	// Unhandled failures keep their generic message unless the server
	// runs in debug mode.
	if resp.Status >= http.StatusInternalServerError && !resp.Override && global.server.Config.Server.Debug {
		resp = resp.WithMessage(originalErr.Error())
	}

	logger := *GetLogger(c)

	var e *zerolog.Event
	if resp.Status >= http.StatusInternalServerError {
		e = logger.Error().Stack().Err(originalErr)
	} else {
		e = logger.Warn().Err(originalErr)
	}

	if len(resp.Errors) > 0 {
		e = e.Interface("fields", resp.Errors)
		for _, fe := range resp.Errors {
			global.server.Metrics.RecordValidationFailure(c.Path(), fe.Field)
		}
	}

	e.
		Int("status", resp.Status).
		Str("error_code", resp.Code).
		Str("error_kind", kind).
		Msg(resp.Message)

	global.server.Metrics.RecordError(kind, resp.Status)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(resp.Status)
	} else {
		err = c.JSON(resp.Status, resp)
	}
	if err != nil {
		logger.Error().Err(errors.WithStack(err)).Msg("failed to write error response")
	}
}
