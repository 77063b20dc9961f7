package security

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/account-service/internal/core/domain"
)

// DefaultCost matches ten rounds of the adaptive hash.
const DefaultCost = bcrypt.DefaultCost

// BcryptHasher implements ports.PasswordHasher. Every digest embeds its own
// random salt, so hashing the same password twice yields different digests.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given work factor, falling back to
// DefaultCost when cost is non-positive.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify compares in constant time. Any comparison failure, including a
// malformed digest, is reported as a mismatch.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil, nil
}
