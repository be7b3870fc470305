package service

import (
	"context"
	"errors"

	"userapp/internal/core/domain"
	"userapp/internal/core/port"
	"userapp/internal/core/telemetry"
)

type AuthService struct {
	repo      port.UserRepository
	hasher    port.PasswordHasher
	telemetry port.Telemetry
}

func NewAuthService(repo port.UserRepository, hasher port.PasswordHasher, probe port.Telemetry) *AuthService {
	if probe == nil {
		probe = telemetry.NewNoOpProbe()
	}

	return &AuthService{repo: repo, hasher: hasher, telemetry: probe}
}

// Authenticate returns the user owning email when password matches. An unknown
// email and a wrong password both yield domain.ErrInvalidCredentials.
func (as *AuthService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	ctx, span := as.telemetry.StartServiceSpan(ctx, "auth", "authenticate")
	defer span.End()

	user, err := as.repo.GetByEmail(ctx, email)

	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	if err != nil {
		as.telemetry.RecordError(ctx, "authenticate", err)
		return domain.User{}, err
	}

	if !as.hasher.Verify(password, user.PasswordHash) {
		as.telemetry.RecordBusinessEvent(ctx, "login_failed", userEntity, user.ID)
		return domain.User{}, domain.ErrInvalidCredentials
	}

	as.telemetry.RecordBusinessEvent(ctx, "login_succeeded", userEntity, user.ID)

	user.PasswordHash = ""

	return user, nil
}
