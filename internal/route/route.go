// Package route holds the declarative route descriptors, the route table
// and the request pipeline every route runs through.
//
// A Route says what a request must carry (parameters, body model,
// dependencies) and how the result is shaped (projection, status). The
// pipeline binds and validates all of it before the handler runs, so a
// handler only ever sees valid input.
package route

import (
	"net/http"

	"github.com/Nivhaham/FastApiBasics/internal/binding"
	"github.com/Nivhaham/FastApiBasics/internal/depend"
	"github.com/Nivhaham/FastApiBasics/internal/model"
	"github.com/labstack/echo/v4"
)

// HandlerFunc is the application code behind a route. It receives the
// bound request and returns a JSON-encodable result or an error.
type HandlerFunc func(c echo.Context, req *Request) (any, error)

// Request is the validated input of one call.
type Request struct {
	// Params holds the route's own parameters by internal name.
	Params binding.Values
	// Body is the validated body, nil when the route declares none.
	Body *model.Value

	deps *depend.Results
}

// Dep returns the result of a route dependency, or nil if d is not part
// of the route.
func (r *Request) Dep(d *depend.Dependency) any {
	if r.deps == nil {
		return nil
	}
	v, _ := r.deps.Get(d)
	return v
}

// Route describes one endpoint. Routes are built at startup and must not
// be modified after they are added to a Table.
type Route struct {
	// Name identifies the operation in logs, traces and the OpenAPI
	// document (operationId).
	Name string
	// Method is an HTTP method, e.g. http.MethodGet.
	Method string
	// Path is the template, with variables written as {name}.
	Path        string
	Summary     string
	Description string
	Tags        []string

	Params []binding.Param
	// Body, when set, is decoded from a JSON request body.
	Body *model.Model
	// Dependencies run before the handler, whether or not it reads them.
	Dependencies []*depend.Dependency
	// Response, when set, shapes the handler result.
	Response *model.Projection

	// Status is the success status; zero means 200.
	Status    int
	Handler   HandlerFunc
	Responder ResponseHandler
}

// SuccessStatus returns the status written on success.
func (r *Route) SuccessStatus() int {
	if r.Status == 0 {
		return http.StatusOK
	}
	return r.Status
}

func (r *Route) responder() ResponseHandler {
	if r.Responder != nil {
		return r.Responder
	}
	return JSONResponseHandler{Status: r.SuccessStatus()}
}

// AllParams returns the route's parameters followed by those declared by
// its dependencies, each dependency counted once.
func (r *Route) AllParams() []binding.Param {
	params := append([]binding.Param(nil), r.Params...)
	depend.Walk(r.Dependencies, func(d *depend.Dependency) {
		params = append(params, d.Params...)
	})
	return params
}
