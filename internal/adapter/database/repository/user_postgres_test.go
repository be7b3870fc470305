package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"userapp/internal/adapter/database"
	"userapp/internal/adapter/database/postgres"
	"userapp/internal/adapter/database/repository"
	"userapp/internal/core/domain"
	"userapp/internal/core/util"
)

func TestPostgresUserRepository(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")

	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := postgres.Open(database.Config{Driver: database.DriverPostgres, URL: url, ServiceName: "userapp-test"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewUserRepository(db, util.NewBcryptHasher(bcrypt.MinCost), nil)
	ctx := context.Background()
	email := "pg-" + uuid.NewString() + "@example.com"

	created, err := repo.Create(ctx, "Postgres User", email, "password123")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Delete(ctx, created.ID) })

	_, err = repo.Create(ctx, "Again", email, "password123")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	found, err := repo.SearchByName(ctx, "Postgres U")
	require.NoError(t, err)
	assert.NotEmpty(t, found)

	name := "Renamed"
	updated, err := repo.Update(ctx, created.ID, domain.UserUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
