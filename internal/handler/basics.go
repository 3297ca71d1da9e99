package handler

import (
	"net/http"

	"github.com/Nivhaham/FastApiBasics/internal/binding"
	"github.com/Nivhaham/FastApiBasics/internal/route"
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/Nivhaham/FastApiBasics/internal/service"
	"github.com/labstack/echo/v4"
)

// Food names accepted by /food/{food_name}.
const (
	FoodFruit = "fruit"
	FoodMeat  = "meat"
	FoodMilk  = "milk"
)

// BasicsHandler serves the root, user lookup and food routes.
type BasicsHandler struct {
	Handler
}

func NewBasicsHandler(s *server.Server, services *service.Services) *BasicsHandler {
	return &BasicsHandler{Handler: NewHandler(s, services)}
}

func message(text string) map[string]any {
	return map[string]any{"message": text}
}

func (h *BasicsHandler) Routes() []*route.Route {
	return []*route.Route{
		{
			Name: "get_root", Method: http.MethodGet, Path: "/", Tags: []string{"root"},
			Handler: h.Root("get"),
		},
		{
			Name: "post_root", Method: http.MethodPost, Path: "/", Tags: []string{"root"},
			Handler: h.Root("post"),
		},
		{
			Name: "put_root", Method: http.MethodPut, Path: "/", Tags: []string{"root"},
			Handler: h.Root("put"),
		},
		{
			Name: "users_list", Method: http.MethodGet, Path: "/users", Tags: []string{"users"},
			Handler: h.ListUsers,
		},
		{
			Name: "get_me_user", Method: http.MethodGet, Path: "/users/me", Tags: []string{"users"},
			Handler: h.GetMe,
		},
		{
			Name: "get_user", Method: http.MethodGet, Path: "/users/{user_id}", Tags: []string{"users"},
			Params:  []binding.Param{binding.Path("user_id", binding.Int)},
			Handler: h.GetUser,
		},
		{
			Name: "get_food", Method: http.MethodGet, Path: "/food/{food_name}", Tags: []string{"food"},
			Params: []binding.Param{
				binding.Path("food_name", binding.String).OneOf(FoodFruit, FoodMeat, FoodMilk),
			},
			Handler: h.GetFood,
		},
	}
}

// Root answers every verb on / with the verb's name.
func (h *BasicsHandler) Root(verb string) route.HandlerFunc {
	return func(echo.Context, *route.Request) (any, error) {
		return message("hey from " + verb + " root"), nil
	}
}

func (h *BasicsHandler) ListUsers(echo.Context, *route.Request) (any, error) {
	return message("users list "), nil
}

func (h *BasicsHandler) GetMe(echo.Context, *route.Request) (any, error) {
	return message("specific endpoint caught before dynamic endpoint"), nil
}

func (h *BasicsHandler) GetUser(_ echo.Context, req *route.Request) (any, error) {
	return map[string]any{"user_id": req.Params.Int("user_id")}, nil
}

func (h *BasicsHandler) GetFood(_ echo.Context, req *route.Request) (any, error) {
	food := req.Params.String("food_name")
	switch food {
	case FoodFruit:
		return message(food + " is good"), nil
	case FoodMilk:
		return message(food + " is tasty"), nil
	}
	return message(food + " is for kids"), nil
}
