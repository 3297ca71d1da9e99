package handler

import (
	"net/http"

	"github.com/Nivhaham/FastApiBasics/internal/model"
	"github.com/Nivhaham/FastApiBasics/internal/route"
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/Nivhaham/FastApiBasics/internal/service"
	"github.com/labstack/echo/v4"
)

// UserHandler serves user registration.
type UserHandler struct {
	Handler
}

func NewUserHandler(s *server.Server, services *service.Services) *UserHandler {
	return &UserHandler{Handler: NewHandler(s, services)}
}

func (h *UserHandler) Routes() []*route.Route {
	return []*route.Route{
		{
			Name: "create_user", Method: http.MethodPost, Path: "/user/", Tags: []string{"users"},
			Body:     userInModel,
			Response: &model.Projection{Model: userOutModel},
			Handler:  h.CreateUser,
		},
	}
}

// CreateUser stores the user and returns its public view. The UserOut
// response model confirms no password leaves the server.
func (h *UserHandler) CreateUser(c echo.Context, req *route.Request) (any, error) {
	var in service.UserIn
	if err := req.Body.Decode(&in); err != nil {
		return nil, err
	}
	return h.services.Users.Create(c.Request().Context(), in), nil
}
