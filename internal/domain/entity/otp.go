package entity

import (
	"time"

	"github.com/google/uuid"
)

// OneTimeCode is a pending email verification code. Only the bcrypt hash of the
// six digit code is kept. A code is deleted as soon as it is consumed.
type OneTimeCode struct {
	ID        uuid.UUID
	Email     string
	CodeHash  string
	CreatedAt time.Time
}

// ExpiresAt returns the instant after which the code is no longer accepted.
func (c *OneTimeCode) ExpiresAt(ttl time.Duration) time.Time {
	return c.CreatedAt.Add(ttl)
}

// IsExpired reports whether the code is older than ttl at now.
func (c *OneTimeCode) IsExpired(now time.Time, ttl time.Duration) bool {
	return !now.Before(c.ExpiresAt(ttl))
}
