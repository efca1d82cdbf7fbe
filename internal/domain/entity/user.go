// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Email and Username are unique across all users.
type User struct {
	ID             uuid.UUID   // The Global Unique Identifier (GUID) for the user.
	FullName       string      // Display name.
	Username       string      // Public handle used in profile URLs.
	Email          string      // Login identifier, stored lowercased.
	PasswordHash   string      // bcrypt hash, never serialized to clients.
	ProfilePicture string      // URL of the profile picture, empty when unset.
	Bio            string      // Free-form profile text.
	IsVerified     bool        // Set once the emailed code has been confirmed.
	Subscribers    []uuid.UUID // Users following this user.
	CreatedAt      time.Time   // Timestamp of when this user account was created.
	UpdatedAt      time.Time   // Timestamp of the last modification to this user's data.
}

// HasSubscriber reports whether subscriberID follows the user.
func (u *User) HasSubscriber(subscriberID uuid.UUID) bool {
	return slices.Contains(u.Subscribers, subscriberID)
}

// SubscribersCount returns the number of followers.
func (u *User) SubscribersCount() int {
	return len(u.Subscribers)
}
