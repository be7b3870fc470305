package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"userapp/internal/core/domain"
	"userapp/internal/core/port"
	"userapp/internal/core/telemetry"
)

const userEntity = "users"

type UserService struct {
	repo      port.UserRepository
	telemetry port.Telemetry
}

func NewUserService(repo port.UserRepository, probe port.Telemetry) *UserService {
	if probe == nil {
		probe = telemetry.NewNoOpProbe()
	}

	return &UserService{repo: repo, telemetry: probe}
}

func (us *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, span := us.telemetry.StartServiceSpan(ctx, "user", "list")
	defer span.End()

	users, err := us.repo.GetAll(ctx)

	if err != nil {
		us.telemetry.RecordError(ctx, "list_users", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("users.count", len(users)))

	return users, nil
}

func (us *UserService) GetUser(ctx context.Context, id int64) (domain.User, error) {
	ctx, span := us.telemetry.StartServiceSpan(ctx, "user", "get", attribute.Int64("user.id", id))
	defer span.End()

	user, err := us.repo.GetByID(ctx, id)

	if err != nil {
		us.recordUnexpected(ctx, "get_user", err)
		return domain.User{}, err
	}

	return user, nil
}

func (us *UserService) SearchUsers(ctx context.Context, fragment string) ([]domain.User, error) {
	ctx, span := us.telemetry.StartServiceSpan(ctx, "user", "search")
	defer span.End()

	users, err := us.repo.SearchByName(ctx, fragment)

	if err != nil {
		us.telemetry.RecordError(ctx, "search_users", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("users.count", len(users)))

	return users, nil
}

// CreateUser rejects a taken email before hashing. The store's unique
// constraint still decides races between concurrent creates.
func (us *UserService) CreateUser(ctx context.Context, name, email, password string) (domain.User, error) {
	ctx, span := us.telemetry.StartServiceSpan(ctx, "user", "create")
	defer span.End()

	if err := us.ensureEmailAvailable(ctx, email, 0); err != nil {
		us.recordUnexpected(ctx, "create_user", err)
		return domain.User{}, err
	}

	user, err := us.repo.Create(ctx, name, email, password)

	if err != nil {
		us.recordUnexpected(ctx, "create_user", err)
		return domain.User{}, err
	}

	us.telemetry.RecordBusinessEvent(ctx, "user_created", userEntity, user.ID)

	return user, nil
}

// UpdateUser changes name and/or email. Keeping one's own email is not a
// conflict.
func (us *UserService) UpdateUser(ctx context.Context, id int64, fields domain.UserUpdate) (domain.User, error) {
	ctx, span := us.telemetry.StartServiceSpan(ctx, "user", "update", attribute.Int64("user.id", id))
	defer span.End()

	if fields.Email != nil {
		if err := us.ensureEmailAvailable(ctx, *fields.Email, id); err != nil {
			us.recordUnexpected(ctx, "update_user", err)
			return domain.User{}, err
		}
	}

	user, err := us.repo.Update(ctx, id, fields)

	if err != nil {
		us.recordUnexpected(ctx, "update_user", err)
		return domain.User{}, err
	}

	us.telemetry.RecordBusinessEvent(ctx, "user_updated", userEntity, user.ID)

	return user, nil
}

func (us *UserService) DeleteUser(ctx context.Context, id int64) error {
	ctx, span := us.telemetry.StartServiceSpan(ctx, "user", "delete", attribute.Int64("user.id", id))
	defer span.End()

	if _, err := us.repo.GetByID(ctx, id); err != nil {
		us.recordUnexpected(ctx, "delete_user", err)
		return err
	}

	deleted, err := us.repo.Delete(ctx, id)

	if err != nil {
		us.telemetry.RecordError(ctx, "delete_user", err)
		return err
	}

	// removed by a concurrent request between the check and the delete
	if !deleted {
		return domain.ErrUserNotFound
	}

	us.telemetry.RecordBusinessEvent(ctx, "user_deleted", userEntity, id)

	return nil
}

// ensureEmailAvailable fails with ErrEmailAlreadyExists when email belongs to
// a user other than ownerID.
func (us *UserService) ensureEmailAvailable(ctx context.Context, email string, ownerID int64) error {
	existing, err := us.repo.GetByEmail(ctx, email)

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != ownerID:
		return domain.ErrEmailAlreadyExists
	default:
		return nil
	}
}

// recordUnexpected reports err unless it is an expected domain outcome.
func (us *UserService) recordUnexpected(ctx context.Context, operation string, err error) {
	if isDomainError(err) {
		return
	}

	us.telemetry.RecordError(ctx, operation, err)
}

func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrUserNotFound) ||
		errors.Is(err, domain.ErrEmailAlreadyExists) ||
		errors.Is(err, domain.ErrInvalidCredentials)
}

