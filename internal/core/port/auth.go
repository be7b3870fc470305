package port

import (
	"context"

	"userapp/internal/core/domain"
)

type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (domain.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
