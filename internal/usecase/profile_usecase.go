package usecase

import (
	"context"

	"blogsphere/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateProfileInput holds optional profile changes. Nil fields are left untouched.
type UpdateProfileInput struct {
	FullName       *string
	Bio            *string
	ProfilePicture *string
}

// ChangePasswordInput defines the data required to rotate a password.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// SubscriptionOutput reports the caller's relation to another user.
type SubscriptionOutput struct {
	Subscribed       bool
	SubscribersCount int
}

// ProfileUsecase defines the interface for profile and subscription operations.
type ProfileUsecase interface {
	// GetProfile returns the user by ID, used for /me and by the auth gate.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// GetByUsername returns a public profile.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)

	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input *ChangePasswordInput) error

	// ToggleSubscription subscribes the caller to target, or unsubscribes if already subscribed.
	ToggleSubscription(ctx context.Context, subscriberID, targetID uuid.UUID) (*SubscriptionOutput, error)
	CheckSubscription(ctx context.Context, subscriberID, targetID uuid.UUID) (*SubscriptionOutput, error)
}
