package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTypeAccess marks session tokens issued after login or verification.
const TokenTypeAccess = "access"

// Claims defines the custom claims for the JWT tokens.
type Claims struct {
	UserID uuid.UUID
	Type   string
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// Issue creates a signed session token for the given user.
	Issue(userID uuid.UUID) (string, error)

	// Validate checks the signature and expiry of a token string and returns its claims.
	Validate(tokenString string) (*Claims, error)

	// TTL returns the configured session lifetime.
	TTL() time.Duration
}
