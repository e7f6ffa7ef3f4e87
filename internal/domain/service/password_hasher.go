// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a
// single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the
// domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a hash to see if they match.
	Check(password, hash string) bool

	// EnsureHashed returns the value hashed, unless it is already recognizably
	// a hash, in which case it is returned unchanged. This keeps credential
	// saves idempotent: a stored hash passed back through a save path is never
	// hashed a second time.
	EnsureHashed(value string) (string, error)
}
