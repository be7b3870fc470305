package factory

import (
	"context"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"

	"userapp/internal/core/domain"
	"userapp/internal/core/port"
)

const DefaultPassword = "password123"

// UserParams is the input accepted by the create-user path.
type UserParams struct {
	Name     string
	Email    string
	Password string
}

// NewUser builds create-user input with a unique email. Keys of customData
// are field names and override the defaults.
func NewUser(customData ...map[string]any) UserParams {
	data := map[string]any{
		"Name":     "Test User",
		"Email":    "user-" + uuid.NewString() + "@example.com",
		"Password": DefaultPassword,
	}

	for _, custom := range customData {
		for key, value := range custom {
			data[key] = value
		}
	}

	return fab.New(UserParams{}).Build(data)
}

// CreateUser stores a user built by NewUser through repo.
func CreateUser(ctx context.Context, repo port.UserRepository, customData ...map[string]any) (domain.User, UserParams, error) {
	params := NewUser(customData...)

	user, err := repo.Create(ctx, params.Name, params.Email, params.Password)

	return user, params, err
}
