package service

import (
	"crypto/subtle"

	"github.com/Nivhaham/FastApiBasics/internal/server"
)

// AuthService checks the shared header secrets configured under auth.
type AuthService struct {
	server *server.Server
}

func NewAuthService(s *server.Server) *AuthService {
	return &AuthService{
		server: s,
	}
}

// ValidToken reports whether token matches the configured token.
func (s *AuthService) ValidToken(token string) bool {
	return equal(token, s.server.Config.Auth.Token)
}

// ValidKey reports whether key matches the configured key.
func (s *AuthService) ValidKey(key string) bool {
	return equal(key, s.server.Config.Auth.Key)
}

func equal(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
