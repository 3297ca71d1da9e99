package handler

import (
	"net/http"

	"github.com/Nivhaham/FastApiBasics/internal/binding"
	"github.com/Nivhaham/FastApiBasics/internal/model"
	"github.com/Nivhaham/FastApiBasics/internal/route"
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/Nivhaham/FastApiBasics/internal/service"
	"github.com/labstack/echo/v4"
)

// CatalogHandler serves stored catalog entries through different
// response projections.
type CatalogHandler struct {
	Handler
}

func NewCatalogHandler(s *server.Server, services *service.Services) *CatalogHandler {
	return &CatalogHandler{Handler: NewHandler(s, services)}
}

func (h *CatalogHandler) Routes() []*route.Route {
	id := binding.Path("item_id", binding.String)

	return []*route.Route{
		{
			Name: "read_catalog_item", Method: http.MethodGet, Path: "/catalog/{item_id}", Tags: []string{"catalog"},
			Params:   []binding.Param{id},
			Response: &model.Projection{Model: catalogItemModel, ExcludeUnset: true},
			Handler:  h.ReadEntry,
		},
		{
			Name: "read_catalog_item_name", Method: http.MethodGet, Path: "/catalog/{item_id}/name", Tags: []string{"catalog"},
			Params:   []binding.Param{id},
			Response: &model.Projection{Model: catalogItemModel, Include: []string{"name", "description"}},
			Handler:  h.ReadEntry,
		},
		{
			Name: "read_catalog_item_public", Method: http.MethodGet, Path: "/catalog/{item_id}/public", Tags: []string{"catalog"},
			Params:   []binding.Param{id},
			Response: &model.Projection{Model: catalogItemModel, Exclude: []string{"tax"}},
			Handler:  h.ReadEntry,
		},
	}
}

// ReadEntry returns the raw stored entry; the route's projection decides
// which fields leave the server.
func (h *CatalogHandler) ReadEntry(_ echo.Context, req *route.Request) (any, error) {
	return h.services.Items.CatalogEntry(req.Params.String("item_id"))
}
