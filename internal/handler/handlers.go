package handler

import (
	"errors"

	"github.com/Nivhaham/FastApiBasics/internal/errs"
	"github.com/Nivhaham/FastApiBasics/internal/route"
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/Nivhaham/FastApiBasics/internal/service"
)

// Handlers groups all HTTP handlers so router setup passes one object
// around instead of many.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler

	Basics  *BasicsHandler
	Items   *ItemHandler
	Forms   *FormHandler
	Errors  *ErrorHandler
	Deps    *DependencyHandler
	Params  *ParamHandler
	Users   *UserHandler
	Catalog *CatalogHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s, services),
		OpenAPI: NewOpenAPIHandler(s, services),
		Basics:  NewBasicsHandler(s, services),
		Items:   NewItemHandler(s, services),
		Forms:   NewFormHandler(s, services),
		Errors:  NewErrorHandler(s, services),
		Deps:    NewDependencyHandler(s, services),
		Params:  NewParamHandler(s, services),
		Users:   NewUserHandler(s, services),
		Catalog: NewCatalogHandler(s, services),
	}
}

// Routes returns every application route.
func (h *Handlers) Routes() []*route.Route {
	var routes []*route.Route
	for _, group := range [][]*route.Route{
		h.Basics.Routes(),
		h.Items.Routes(),
		h.Forms.Routes(),
		h.Errors.Routes(),
		h.Deps.Routes(),
		h.Params.Routes(),
		h.Users.Routes(),
		h.Catalog.Routes(),
	} {
		routes = append(routes, group...)
	}
	return routes
}

// Register adds every application route to table and reports all
// registration failures at once.
func (h *Handlers) Register(table *route.Table) error {
	var failures []error
	for _, r := range h.Routes() {
		if err := table.Add(r); err != nil {
			failures = append(failures, err)
		}
	}
	h.Health.table = table
	return errors.Join(failures...)
}

// RegisterErrors adds the domain error mappings to m.
func (h *Handlers) RegisterErrors(m *errs.Mapper) {
	errs.Handle(m, "teapot", teapotResponse)
}
