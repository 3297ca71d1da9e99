package handler

import (
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/Nivhaham/FastApiBasics/internal/service"
)

// Handler is the base handler type that holds shared application dependencies.
//
// It is embedded by concrete handlers so they can reach the server
// container and the service layer.
type Handler struct {
	server   *server.Server
	services *service.Services
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server, services *service.Services) Handler {
	return Handler{server: s, services: services}
}
