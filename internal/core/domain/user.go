package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrHashFailed         = errors.New("password hashing failed")
)

type User struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password" json:"-"`
}

// UserUpdate carries the mutable fields of a user. A nil field is left untouched.
type UserUpdate struct {
	Name  *string
	Email *string
}

func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil
}
