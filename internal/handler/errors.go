package handler

import (
	"fmt"
	"net/http"

	"github.com/Nivhaham/FastApiBasics/internal/binding"
	"github.com/Nivhaham/FastApiBasics/internal/errs"
	"github.com/Nivhaham/FastApiBasics/internal/route"
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/Nivhaham/FastApiBasics/internal/service"
	"github.com/labstack/echo/v4"
)

// unwantedItem is the item id both error routes refuse.
const unwantedItem = 10

// TeapotError is a domain error. It knows nothing about HTTP; the
// mapping registered in RegisterErrors turns it into a 418.
type TeapotError struct {
	Name string
}

func (e *TeapotError) Error() string {
	return fmt.Sprintf("teapot error for %s", e.Name)
}

func teapotResponse(e *TeapotError) *errs.HTTPError {
	return errs.NewHTTPError(http.StatusTeapot,
		fmt.Sprintf("Oops! %s did something. There goes a rainbow...", e.Name))
}

// ErrorHandler serves the routes that fail on purpose.
type ErrorHandler struct {
	Handler
}

func NewErrorHandler(s *server.Server, services *service.Services) *ErrorHandler {
	return &ErrorHandler{Handler: NewHandler(s, services)}
}

func (h *ErrorHandler) Routes() []*route.Route {
	return []*route.Route{
		{
			Name: "get_item_http_error", Method: http.MethodGet, Path: "/get_item/{item_id}", Tags: []string{"errors"},
			Params:  []binding.Param{binding.Path("item_id", binding.Int)},
			Handler: h.GetItem,
		},
		{
			Name: "get_item_domain_error", Method: http.MethodGet, Path: "/blah_items/{item_id}", Tags: []string{"errors"},
			Params:  []binding.Param{binding.Path("item_id", binding.Int)},
			Handler: h.BlahItem,
		},
	}
}

// GetItem raises an HTTP error directly.
func (h *ErrorHandler) GetItem(_ echo.Context, req *route.Request) (any, error) {
	id := req.Params.Int("item_id")
	if id == unwantedItem {
		return nil, errs.NewHTTPError(http.StatusTeapot, "Nope! I don't like 10.")
	}
	return map[string]any{"item_id": id}, nil
}

// BlahItem raises a domain error and leaves the status to the mapping.
func (h *ErrorHandler) BlahItem(_ echo.Context, req *route.Request) (any, error) {
	id := req.Params.Int("item_id")
	if id == unwantedItem {
		return nil, &TeapotError{Name: fmt.Sprint(id)}
	}
	return map[string]any{"item_id": id}, nil
}
