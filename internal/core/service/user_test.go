package service_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"userapp/internal/adapter/database"
	"userapp/internal/adapter/database/repository"
	"userapp/internal/core/domain"
	"userapp/internal/core/port"
	"userapp/internal/core/service"
	"userapp/internal/core/telemetry"
	"userapp/internal/core/util"
	. "userapp/pkg/test"
	"userapp/pkg/test/factory"
)

type UserServiceTestSuite struct {
	suite.Suite
	db       *database.DB
	registry *prometheus.Registry
	repo    port.UserRepository
	svc     *service.UserService
}

func (s *UserServiceTestSuite) SetupTest() {
	s.db = InitTestDB()
	s.registry = prometheus.NewRegistry()

	probe := telemetry.NewOTELProbe(telemetry.NewAppMetrics(s.registry), nil)

	s.repo = repository.NewUserRepository(s.db, util.NewBcryptHasher(bcrypt.MinCost), probe)
	s.svc = service.NewUserService(s.repo, probe)
}

func (s *UserServiceTestSuite) TearDownTest() {
	s.db.Close()
}

func TestUserServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserServiceTestSuite))
}

func strPtr(v string) *string {
	return &v
}

func (s *UserServiceTestSuite) TestService_CreateUser_Success() {
	user, err := s.svc.CreateUser(context.Background(), "Test User", "test@example.com", "password123")

	Expect(err).NotTo(HaveOccurred())
	Expect(user.ID).To(BeNumerically(">", 0))
	Expect(user.Name).To(Equal("Test User"))
	Expect(user.Email).To(Equal("test@example.com"))
	Expect(user.PasswordHash).To(BeEmpty())
}

func (s *UserServiceTestSuite) TestService_CreateUser_DuplicateEmail() {
	ctx := context.Background()

	_, err := s.svc.CreateUser(ctx, "First", "dup@example.com", "password123")
	Expect(err).NotTo(HaveOccurred())

	_, err = s.svc.CreateUser(ctx, "Second", "dup@example.com", "password123")
	Expect(err).To(MatchError(domain.ErrEmailAlreadyExists))

	users, _ := s.svc.ListUsers(ctx)
	Expect(users).To(HaveLen(1))
}

func (s *UserServiceTestSuite) TestService_CreateUser_RecordsBusinessEvent() {
	_, err := s.svc.CreateUser(context.Background(), "Metric", "metric@example.com", "password123")
	Expect(err).NotTo(HaveOccurred())

	count, err := testutil.GatherAndCount(s.registry, "user_operations_total")
	Expect(err).NotTo(HaveOccurred())
	Expect(count).To(Equal(1))

	errorsCount, err := testutil.GatherAndCount(s.registry, "errors_total")
	Expect(err).NotTo(HaveOccurred())
	Expect(errorsCount).To(BeZero())
}

func (s *UserServiceTestSuite) TestService_ListUsers() {
	ctx := context.Background()

	users, err := s.svc.ListUsers(ctx)
	Expect(err).NotTo(HaveOccurred())
	Expect(users).To(BeEmpty())

	for i := 0; i < 2; i++ {
		_, _, err := factory.CreateUser(ctx, s.repo)
		Expect(err).NotTo(HaveOccurred())
	}

	users, err = s.svc.ListUsers(ctx)
	Expect(err).NotTo(HaveOccurred())
	Expect(users).To(HaveLen(2))
}

func (s *UserServiceTestSuite) TestService_GetUser_NotFound() {
	_, err := s.svc.GetUser(context.Background(), 42)

	Expect(errors.Is(err, domain.ErrUserNotFound)).To(BeTrue())
}

func (s *UserServiceTestSuite) TestService_SearchUsers() {
	ctx := context.Background()

	_, _, err := factory.CreateUser(ctx, s.repo, map[string]any{"Name": "John Doe"})
	Expect(err).NotTo(HaveOccurred())

	users, err := s.svc.SearchUsers(ctx, "John")
	Expect(err).NotTo(HaveOccurred())
	Expect(users).To(HaveLen(1))
	Expect(users[0].Name).To(Equal("John Doe"))
}

func (s *UserServiceTestSuite) TestService_UpdateUser_KeepOwnEmail() {
	ctx := context.Background()

	created, params, err := factory.CreateUser(ctx, s.repo)
	Expect(err).NotTo(HaveOccurred())

	updated, err := s.svc.UpdateUser(ctx, created.ID, domain.UserUpdate{
		Name:  strPtr("New Name"),
		Email: strPtr(params.Email),
	})

	Expect(err).NotTo(HaveOccurred())
	Expect(updated.Name).To(Equal("New Name"))
	Expect(updated.Email).To(Equal(params.Email))
}

func (s *UserServiceTestSuite) TestService_UpdateUser_EmailTaken() {
	ctx := context.Background()

	first, _, err := factory.CreateUser(ctx, s.repo)
	Expect(err).NotTo(HaveOccurred())

	_, other, err := factory.CreateUser(ctx, s.repo)
	Expect(err).NotTo(HaveOccurred())

	_, err = s.svc.UpdateUser(ctx, first.ID, domain.UserUpdate{Email: strPtr(other.Email)})

	Expect(err).To(MatchError(domain.ErrEmailAlreadyExists))
}

func (s *UserServiceTestSuite) TestService_UpdateUser_NotFound() {
	_, err := s.svc.UpdateUser(context.Background(), 404, domain.UserUpdate{Name: strPtr("Nobody")})

	Expect(errors.Is(err, domain.ErrUserNotFound)).To(BeTrue())
}

func (s *UserServiceTestSuite) TestService_DeleteUser() {
	ctx := context.Background()

	created, _, err := factory.CreateUser(ctx, s.repo)
	Expect(err).NotTo(HaveOccurred())

	Expect(s.svc.DeleteUser(ctx, created.ID)).To(Succeed())

	err = s.svc.DeleteUser(ctx, created.ID)
	Expect(errors.Is(err, domain.ErrUserNotFound)).To(BeTrue())
}

type failingRepository struct {
	port.UserRepository
	err error
}

func (r failingRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	return nil, r.err
}

func (r failingRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return domain.User{}, r.err
}

func TestUserService_StoreFailureIsRecorded(t *testing.T) {
	RegisterTestingT(t)

	registry := prometheus.NewRegistry()
	boom := errors.New("disk full")
	svc := service.NewUserService(failingRepository{err: boom}, telemetry.NewOTELProbe(telemetry.NewAppMetrics(registry), nil))

	_, err := svc.ListUsers(context.Background())
	Expect(err).To(MatchError(boom))

	_, err = svc.CreateUser(context.Background(), "Name", "name@example.com", "password123")
	Expect(err).To(MatchError(boom))

	// one series per failing operation
	count, err := testutil.GatherAndCount(registry, "errors_total")
	Expect(err).NotTo(HaveOccurred())
	Expect(count).To(Equal(2))
}
