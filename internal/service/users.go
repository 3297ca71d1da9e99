package service

import (
	"context"

	"github.com/Nivhaham/FastApiBasics/internal/middleware"
	"github.com/Nivhaham/FastApiBasics/internal/repository"
	"github.com/Nivhaham/FastApiBasics/internal/server"
)

// UserIn is a registration request.
type UserIn struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}

// UserOut is the public view of a user.
type UserOut struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}

type UserService struct {
	server *server.Server
	repos  *repository.Repositories
}

func NewUserService(s *server.Server, repos *repository.Repositories) *UserService {
	return &UserService{server: s, repos: repos}
}

// FakeHash stands in for a password hash. It is not one.
func FakeHash(password string) string {
	return "supersecret" + password
}

// Create stores the user with a hashed password and returns its public
// view.
func (s *UserService) Create(ctx context.Context, in UserIn) UserOut {
	s.repos.Users.Save(repository.StoredUser{
		Username:       in.Username,
		HashedPassword: FakeHash(in.Password),
		Email:          in.Email,
		FullName:       in.FullName,
	})

	middleware.LoggerFromContext(ctx).Info().Str("username", in.Username).Msg("user registered")

	return UserOut{Username: in.Username, Email: in.Email, FullName: in.FullName}
}
