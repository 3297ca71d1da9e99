package repository

import (
	"errors"

	"github.com/Nivhaham/FastApiBasics/internal/server"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// Repositories is a container for all repository instances.
type Repositories struct {
	Items   *ItemRepository
	Catalog *CatalogRepository
	Users   *UserRepository
}

// NewRepositories constructs the repository container.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Items:   NewItemRepository(),
		Catalog: NewCatalogRepository(),
		Users:   NewUserRepository(s.Logger),
	}
}
