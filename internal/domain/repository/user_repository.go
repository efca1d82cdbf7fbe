// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"blogsphere/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned when a create or update collides with an existing email or username.
	ErrDuplicateUser = errors.New("user already exists")
)

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID, subscribers included.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByUsername retrieves a single user by their username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByIDs retrieves every user whose ID is listed. Unknown IDs are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.User, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies the profile, password hash and verification flag of an existing user.
	Update(ctx context.Context, user *entity.User) error

	// AddSubscriber records subscriberID as a follower of userID. Adding twice is a no-op.
	AddSubscriber(ctx context.Context, userID, subscriberID uuid.UUID) error

	// RemoveSubscriber removes subscriberID from the followers of userID.
	RemoveSubscriber(ctx context.Context, userID, subscriberID uuid.UUID) error
}
