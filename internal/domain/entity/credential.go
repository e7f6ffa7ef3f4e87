// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Credential holds the salted password hash for a user, one-to-one with User.
// The PasswordHash field only ever stores a hash, never plaintext; the hashing
// service guarantees a value that is already hashed is not hashed again.
type Credential struct {
	ID           uuid.UUID // The unique ID for this credential record.
	UserID       uuid.UUID // Links this credential to the User it belongs to (unique).
	PasswordHash string    // The bcrypt hash of the user's password.
	CreatedAt    time.Time // Timestamp of when this credential was created.
	UpdatedAt    time.Time // Timestamp of the last password change.
}
