package repository

import (
	"context"
	"errors"

	"blogsphere/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCodeNotFound is returned when no pending verification code matches.
var ErrCodeNotFound = errors.New("verification code not found")

// CodeRepository persists pending email verification codes.
type CodeRepository interface {
	// Create stores a new code.
	Create(ctx context.Context, code *entity.OneTimeCode) error

	// FindLatestByEmail returns the most recently created code for email and locks it
	// for the remainder of the surrounding transaction.
	FindLatestByEmail(ctx context.Context, email string) (*entity.OneTimeCode, error)

	// Delete removes a single code. It returns ErrCodeNotFound when nothing was removed,
	// which happens if a concurrent request consumed the code first.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByEmail removes every code for email and reports how many were removed.
	DeleteByEmail(ctx context.Context, email string) (int64, error)
}
