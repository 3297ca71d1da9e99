package repository

import (
	"sync"

	"github.com/rs/zerolog"
)

// StoredUser is a user as persisted, including the password hash.
type StoredUser struct {
	Username       string
	HashedPassword string
	Email          string
	FullName       *string
}

// UserRepository keeps users in memory, keyed by username. It is safe
// for concurrent use.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[string]StoredUser
	logger *zerolog.Logger
}

func NewUserRepository(logger *zerolog.Logger) *UserRepository {
	return &UserRepository{
		users:  map[string]StoredUser{},
		logger: logger,
	}
}

// Save stores u, replacing any user with the same name.
func (r *UserRepository) Save(u StoredUser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[u.Username] = u
	r.logger.Debug().Str("username", u.Username).Int("users", len(r.users)).Msg("user saved")
}

// Get returns the user named username.
func (r *UserRepository) Get(username string) (StoredUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return StoredUser{}, ErrNotFound
	}
	return u, nil
}
