package main

import (
	"context"
	"errors"
	"log"
	"os"

	"go.uber.org/zap"

	"userapp/internal/adapter/database/repository"
	"userapp/internal/adapter/database/store"
	"userapp/internal/core/domain"
	"userapp/internal/core/port"
	"userapp/internal/core/telemetry"
	"userapp/internal/core/util"
	"userapp/pkg/config"
)

type sampleUser struct {
	Name     string
	Email    string
	Password string
}

var sampleUsers = []sampleUser{
	{Name: "John Doe", Email: "john@example.com", Password: "password123"},
	{Name: "Jane Smith", Email: "jane@example.com", Password: "secret456"},
	{Name: "Bob Johnson", Email: "bob@example.com", Password: "qwerty789"},
}

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])

	if err != nil {
		log.Fatal(err)
	}

	logger, err := config.NewLogger(cfg.ServiceName+"-seed", cfg.LogLevel)

	if err != nil {
		log.Fatal(err)
	}

	defer logger.Sync()

	db, err := store.Open(store.ConfigFrom(cfg))

	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}

	defer db.Close()

	repo := repository.NewUserRepository(db, util.NewBcryptHasher(cfg.BcryptCost), telemetry.NewNoOpProbe())

	created, err := seed(context.Background(), repo, logger)

	if err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}

	logger.Info("Seeding finished", zap.Int("created", created))
}

// seed inserts the sample users, leaving any whose email is already taken.
func seed(ctx context.Context, repo port.UserRepository, logger *config.Logger) (int, error) {
	created := 0

	for _, u := range sampleUsers {
		user, err := repo.Create(ctx, u.Name, u.Email, u.Password)

		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			logger.Info("User already exists", zap.String("email", u.Email))
			continue
		}

		if err != nil {
			return created, err
		}

		logger.Info("User created", zap.Int64("user_id", user.ID), zap.String("email", u.Email))
		created++
	}

	return created, nil
}
