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

// ItemHandler serves the item list, item creation and offers.
type ItemHandler struct {
	Handler
}

func NewItemHandler(s *server.Server, services *service.Services) *ItemHandler {
	return &ItemHandler{Handler: NewHandler(s, services)}
}

func (h *ItemHandler) Routes() []*route.Route {
	return []*route.Route{
		{
			Name: "get_item", Method: http.MethodGet, Path: "/items/{item_id}", Tags: []string{"items"},
			Params: []binding.Param{
				binding.Path("item_id", binding.Int),
				binding.Query("q", binding.String).Optional(),
			},
			Handler: h.GetItem,
		},
		{
			Name: "create_item", Method: http.MethodPost, Path: "/items", Tags: []string{"items"},
			Body:    itemModel,
			Handler: h.CreateItem,
		},
		{
			Name: "read_items", Method: http.MethodGet, Path: "/items", Tags: []string{"items"},
			Params: []binding.Param{
				binding.Query("q", binding.String).Optional().MaxLength(50),
			},
			Handler: h.ReadItems,
		},
		{
			Name: "read_items_validation", Method: http.MethodGet, Path: "/items_validation/{item_id}", Tags: []string{"items"},
			Params: []binding.Param{
				binding.Path("item_id", binding.Int).Rules("gte=1").Describe("The ID of the item to get"),
				binding.Query("b", binding.String),
				binding.Query("q", binding.String).Optional(),
			},
			Handler: h.ReadItemsValidation,
		},
		{
			Name: "update_offers", Method: http.MethodPut, Path: "/offers", Tags: []string{"items"},
			Body:     offerModel,
			Response: &model.Projection{Model: offerModel},
			Handler:  h.UpdateOffers,
		},
	}
}

func (h *ItemHandler) GetItem(_ echo.Context, req *route.Request) (any, error) {
	name, err := h.services.Items.Name(req.Params.Int("item_id"))
	if err != nil {
		return nil, err
	}

	result := map[string]any{"item_id": name}
	if q := req.Params.String("q"); q != "" {
		result["q"] = q
	}
	return result, nil
}

func (h *ItemHandler) CreateItem(_ echo.Context, req *route.Request) (any, error) {
	var item service.ItemIn
	if err := req.Body.Decode(&item); err != nil {
		return nil, err
	}
	return h.services.Items.Price(item), nil
}

func (h *ItemHandler) ReadItems(_ echo.Context, req *route.Request) (any, error) {
	result := map[string]any{
		"items": []map[string]any{{"item_id": "Foo"}, {"item_id": "Bar"}},
	}
	if q := req.Params.String("q"); q != "" {
		result["q"] = q
	}
	return result, nil
}

func (h *ItemHandler) ReadItemsValidation(_ echo.Context, req *route.Request) (any, error) {
	result := map[string]any{
		"item_id": req.Params.Int("item_id"),
		"b":       req.Params.String("b"),
	}
	if q := req.Params.String("q"); q != "" {
		result["q"] = q
	}
	return result, nil
}

// UpdateOffers echoes the validated offer; tags come back deduplicated.
func (h *ItemHandler) UpdateOffers(_ echo.Context, req *route.Request) (any, error) {
	return req.Body, nil
}
