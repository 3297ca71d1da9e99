package errs

import (
	"net/http"
)

// NewHTTPError creates an HTTPError with an arbitrary status. The message
// is always meant for the client.
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{
		Code:     StatusCode(status),
		Message:  message,
		Status:   status,
		Override: true,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code overrides the default "BAD_REQUEST" when non-nil; errors carries
// optional per-field detail.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError) *HTTPError {
	formattedCode := StatusCode(http.StatusBadRequest)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := StatusCode(http.StatusNotFound)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewMethodNotAllowedError creates a 405 HTTPError.
func NewMethodNotAllowedError(message string) *HTTPError {
	return &HTTPError{
		Code:    StatusCode(http.StatusMethodNotAllowed),
		Message: message,
		Status:  http.StatusMethodNotAllowed,
	}
}

// NewInternalServerError creates a 500 HTTPError.
//
// The message is the generic status text, never the underlying error.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     StatusCode(http.StatusInternalServerError),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// NewUnprocessableEntityError creates the 422 response used for request
// validation failures.
func NewUnprocessableEntityError(message string, errors []FieldError) *HTTPError {
	return &HTTPError{
		Code:     "VALIDATION_FAILED",
		Message:  message,
		Status:   http.StatusUnprocessableEntity,
		Override: true,
		Errors:   errors,
	}
}
