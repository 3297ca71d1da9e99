package route

import (
	"errors"
	"time"

	"github.com/Nivhaham/FastApiBasics/internal/binding"
	"github.com/Nivhaham/FastApiBasics/internal/depend"
	"github.com/Nivhaham/FastApiBasics/internal/errs"
	"github.com/Nivhaham/FastApiBasics/internal/metrics"
	"github.com/Nivhaham/FastApiBasics/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Mount registers every route on e in specificity order. m may be nil.
func (t *Table) Mount(e *echo.Echo, m *metrics.Manager) {
	for _, r := range t.Routes() {
		rt := r
		er := e.Add(rt.Method, EchoPath(rt.Path), func(c echo.Context) error {
			return handleRequest(c, rt, m)
		})
		er.Name = rt.Name
	}
}

// handleRequest is the shared execution pipeline for all routes:
//
//   - dependency resolution (depth-first, cached per request)
//   - parameter and body binding, with every failure aggregated
//   - handler execution
//   - response projection and writing
//
// Failures are returned untouched so the global error handler maps them.
func handleRequest(c echo.Context, r *Route, m *metrics.Manager) error {
	start := time.Now()
	responder := r.responder()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", r.Name)
		responder.AddAttributes(txn, nil)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responder.GetOperation()).
		Str("handler", r.Name).
		Str("route", r.Path).
		Logger()

	logger.Debug().Msg("handling request")

	// ---------------- Dependency phase ---------------------------------------
	verr := &errs.ValidationError{}

	results, err := depend.Resolve(c, r.Dependencies)
	if err != nil {
		var fieldErrs *errs.ValidationError
		if !errors.As(err, &fieldErrs) {
			var depErr *depend.Error
			if errors.As(err, &depErr) {
				m.RecordDependencyFailure(r.Path, depErr.Dependency)
			}

			logger.Warn().Err(err).Msg("dependency failed")
			if txn != nil {
				txn.AddAttribute("dependency.status", "failed")
			}
			return err
		}
		// A dependency's own parameters failed; report them together with
		// the route's.
		verr.Merge(fieldErrs)
	}

	// ---------------- Validation phase ---------------------------------------
	validationStart := time.Now()

	req := &Request{deps: results}
	params, err := binding.Bind(c, r.Params)
	if err != nil {
		if !mergeValidation(verr, err) {
			return err
		}
	}
	req.Params = params

	if r.Body != nil {
		body, err := r.Body.Decode(c.Request().Body)
		if err != nil && !mergeValidation(verr, err) {
			return err
		}
		req.Body = body
	}

	validationDuration := time.Since(validationStart)

	if err := verr.Err(); err != nil {
		logger.Warn().
			Interface("fields", verr.Fields).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	// ---------------- Handler execution phase --------------------------------
	handlerStart := time.Now()
	result, err := r.Handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		logger.Warn().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")

		if txn != nil {
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}
		return err
	}

	// ---------------- Response phase -----------------------------------------
	if r.Response != nil {
		result, err = r.Response.Apply(result)
		if err != nil {
			logger.Error().Err(err).Msg("handler result does not match response model")
			if txn != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}
			return err
		}
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		responder.AddAttributes(txn, result)
	}

	logger.Debug().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return responder.Handle(c, result)
}

// mergeValidation folds a validation failure into verr and reports
// whether err was one.
func mergeValidation(verr *errs.ValidationError, err error) bool {
	var fieldErrs *errs.ValidationError
	if !errors.As(err, &fieldErrs) {
		return false
	}
	verr.Merge(fieldErrs)
	return true
}
