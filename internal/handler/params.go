package handler

import (
	"net/http"

	"github.com/Nivhaham/FastApiBasics/internal/binding"
	"github.com/Nivhaham/FastApiBasics/internal/route"
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/Nivhaham/FastApiBasics/internal/service"
	"github.com/labstack/echo/v4"
)

// ParamHandler serves routes reading headers, repeated query values and
// cookies.
type ParamHandler struct {
	Handler
}

func NewParamHandler(s *server.Server, services *service.Services) *ParamHandler {
	return &ParamHandler{Handler: NewHandler(s, services)}
}

func (h *ParamHandler) Routes() []*route.Route {
	return []*route.Route{
		{
			Name: "read_headers", Method: http.MethodGet, Path: "/headers/", Tags: []string{"params"},
			Params:  []binding.Param{binding.Header("x_token", binding.String).Optional().Many()},
			Handler: h.ReadHeaders,
		},
		{
			Name: "search_items", Method: http.MethodGet, Path: "/search/", Tags: []string{"params"},
			Params: []binding.Param{
				binding.Query("q", binding.String).Optional().As("item-query").MinLength(3).MaxLength(50),
				binding.Query("tag", binding.String).Optional().Many(),
			},
			Handler: h.Search,
		},
		{
			Name: "read_cookies", Method: http.MethodGet, Path: "/cookies/", Tags: []string{"params"},
			Params:  []binding.Param{binding.Cookie("ads_id", binding.String).Optional()},
			Handler: h.ReadCookies,
		},
	}
}

func (h *ParamHandler) ReadHeaders(_ echo.Context, req *route.Request) (any, error) {
	return map[string]any{"X-Token values": req.Params.Strings("x_token")}, nil
}

func (h *ParamHandler) Search(_ echo.Context, req *route.Request) (any, error) {
	result := map[string]any{"tags": req.Params.Strings("tag")}
	if req.Params.Has("q") {
		result["q"] = req.Params.String("q")
	}
	return result, nil
}

func (h *ParamHandler) ReadCookies(_ echo.Context, req *route.Request) (any, error) {
	return map[string]any{"ads_id": req.Params.StringPtr("ads_id")}, nil
}
