package errs

import (
	"errors"
	"net/http"
)

// Formatter turns a recognized error into the response the client sees.
type Formatter func(err error) *HTTPError

// KindUnhandled is reported by Resolve when no registered mapping matched.
const KindUnhandled = "unhandled"

type mapping struct {
	kind   string
	match  func(error) bool
	format Formatter
}

// Mapper is the exception-to-response table consulted by the global error
// handler.
//
// Mappings are added at startup with Register or Handle and are searched
// newest first, so application code can shadow a built-in mapping
// without touching the dispatch path. A Mapper must not be modified once
// the server is accepting requests.
type Mapper struct {
	mappings []mapping
	fallback Formatter
}

// NewMapper returns a Mapper preloaded with the two framework classes:
// *HTTPError passes through unchanged and *ValidationError becomes a 422
// carrying every field failure. Anything else falls back to a generic 500.
func NewMapper() *Mapper {
	m := &Mapper{
		fallback: func(error) *HTTPError { return NewInternalServerError() },
	}

	Handle(m, "http", func(e *HTTPError) *HTTPError {
		return e
	})
	Handle(m, "validation", func(e *ValidationError) *HTTPError {
		return NewUnprocessableEntityError(http.StatusText(http.StatusUnprocessableEntity), e.Fields)
	})

	return m
}

// Register adds a mapping. kind is a short label used in logs and metrics.
func (m *Mapper) Register(kind string, match func(error) bool, format Formatter) {
	m.mappings = append(m.mappings, mapping{kind: kind, match: match, format: format})
}

// SetFallback replaces the catch-all formatter used for unmapped errors.
func (m *Mapper) SetFallback(format Formatter) {
	m.fallback = format
}

// Handle registers a mapping for every error whose chain contains a T.
func Handle[T error](m *Mapper, kind string, format func(T) *HTTPError) {
	m.Register(kind,
		func(err error) bool {
			var target T
			return errors.As(err, &target)
		},
		func(err error) *HTTPError {
			var target T
			errors.As(err, &target)
			return format(target)
		},
	)
}

// Resolve maps err to its response and reports which mapping matched.
// Unmapped errors yield the fallback response and KindUnhandled.
func (m *Mapper) Resolve(err error) (*HTTPError, string) {
	for i := len(m.mappings) - 1; i >= 0; i-- {
		mp := m.mappings[i]
		if !mp.match(err) {
			continue
		}
		if resp := mp.format(err); resp != nil {
			return resp, mp.kind
		}
	}
	return m.fallback(err), KindUnhandled
}
