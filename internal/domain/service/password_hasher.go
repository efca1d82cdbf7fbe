// Package service declares the ports the use cases depend on for work that
// lives outside the domain: hashing, tokens, codes, mail, storage and events.
package service

// PasswordHasher turns account passwords into one-way hashes.
type PasswordHasher interface {
	// Hash returns a salted hash of password.
	Hash(password string) (string, error)

	// Check reports whether password matches hash.
	Check(password, hash string) bool
}
