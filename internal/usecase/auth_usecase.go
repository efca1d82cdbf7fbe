// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"blogsphere/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	FullName string
	Username string
	Email    string
	Password string
}

// VerifyEmailInput carries the emailed code back.
type VerifyEmailInput struct {
	Email string
	Code  string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the new, still unverified account. CodeDelivered is false
// when the verification email could not be sent; the code is stored either way and
// can be re-sent.
type RegisterOutput struct {
	User          *entity.User
	CodeDelivered bool
}

// SessionOutput is returned by every call that signs a user in.
type SessionOutput struct {
	Token string
	User  *entity.User
}

// AuthUsecase covers registration, email verification and login.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	VerifyEmail(ctx context.Context, input *VerifyEmailInput) (*SessionOutput, error)
	ResendCode(ctx context.Context, email string) error
	Login(ctx context.Context, input *LoginInput) (*SessionOutput, error)
}
