package util

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"userapp/internal/core/domain"
)

// BcryptHasher hashes passwords with a random salt per call.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	encrypted, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrHashFailed, err)
	}

	return string(encrypted), nil
}

// Verify reports whether password matches hash. A malformed hash never matches.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
