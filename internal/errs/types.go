package errs

import (
	"fmt"
	"net/http"
	"strings"
)

// FieldError describes one invalid request field.
//
// Field is a dotted location that names the source first, e.g.
//
//	{ "field": "query.q", "error": "must not exceed 50 characters" }
//	{ "field": "body.items.0.price", "error": "is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the error body written for every failed request.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: the message was written for clients and may be shown even
//     when the status is a 5xx and debug output is disabled.
//   - Errors: per-field failures (validation).
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError. Status and code are
// not compared.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
	}
}

// ValidationError is produced by the parameter binder and the body
// validator. It always carries every failing field, never just the first.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Error))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field failure.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Error: message})
}

// Merge appends all failures of other, which may be nil.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	e.Fields = append(e.Fields, other.Fields...)
}

// Err returns e as an error, or nil when no field failed. It keeps the
// typed-nil-in-interface trap away from callers.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}

// StatusCode returns the stable machine code for an HTTP status.
func StatusCode(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}
