package service_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"userapp/internal/adapter/database"
	"userapp/internal/adapter/database/repository"
	"userapp/internal/core/domain"
	"userapp/internal/core/port"
	"userapp/internal/core/service"
	"userapp/internal/core/util"
	. "userapp/pkg/test"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db   *database.DB
	svc  port.AuthService
	repo port.UserRepository
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.db = InitTestDB()

	hasher := util.NewBcryptHasher(bcrypt.MinCost)

	s.repo = repository.NewUserRepository(s.db, hasher, nil)
	s.svc = service.NewAuthService(s.repo, hasher, nil)
}

func (s *AuthServiceTestSuite) TearDownTest() {
	s.db.Close()
}

func TestAuthServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) TestService_Authenticate_Success() {
	ctx := context.Background()

	created, err := s.repo.Create(ctx, "John Doe", "john@example.com", "password123")
	assert.NoError(s.T(), err)

	user, err := s.svc.Authenticate(ctx, "john@example.com", "password123")

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, user.ID)
	assert.Empty(s.T(), user.PasswordHash)
}

func (s *AuthServiceTestSuite) TestService_Authenticate_WrongPassword() {
	ctx := context.Background()

	_, err := s.repo.Create(ctx, "John Doe", "john@example.com", "password123")
	assert.NoError(s.T(), err)

	_, err = s.svc.Authenticate(ctx, "john@example.com", "wrong-password")

	assert.ErrorIs(s.T(), err, domain.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestService_Authenticate_UnknownEmail() {
	_, err := s.svc.Authenticate(context.Background(), "nobody@example.com", "password123")

	assert.ErrorIs(s.T(), err, domain.ErrInvalidCredentials)
}

func TestAuthService_StoreFailureIsNotInvalidCredentials(t *testing.T) {
	RegisterTestingT(t)

	boom := errors.New("connection reset")
	svc := service.NewAuthService(failingRepository{err: boom}, util.NewBcryptHasher(bcrypt.MinCost), nil)

	_, err := svc.Authenticate(context.Background(), "john@example.com", "password123")

	Expect(err).To(MatchError(boom))
	Expect(errors.Is(err, domain.ErrInvalidCredentials)).To(BeFalse())
}
