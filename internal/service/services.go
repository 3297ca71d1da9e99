package service

import (
	"github.com/Nivhaham/FastApiBasics/internal/repository"
	"github.com/Nivhaham/FastApiBasics/internal/server"
)

type Services struct {
	Auth  *AuthService
	Items *ItemService
	Users *UserService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		Auth:  NewAuthService(s),
		Items: NewItemService(repos),
		Users: NewUserService(s, repos),
	}
}
