package port

import (
	"context"

	"userapp/internal/core/domain"
)

type UserRepository interface {
	GetAll(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	SearchByName(ctx context.Context, fragment string) ([]domain.User, error)
	Create(ctx context.Context, name, email, password string) (domain.User, error)
	Update(ctx context.Context, id int64, fields domain.UserUpdate) (domain.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (domain.User, error)
	SearchUsers(ctx context.Context, fragment string) ([]domain.User, error)
	CreateUser(ctx context.Context, name, email, password string) (domain.User, error)
	UpdateUser(ctx context.Context, id int64, fields domain.UserUpdate) (domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}
