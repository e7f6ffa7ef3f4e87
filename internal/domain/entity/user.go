// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity record of the system. Email and ID are fixed at
// registration; only administrative paths may change the role afterwards.
type User struct {
	ID        uuid.UUID // The unique identifier for the user.
	FirstName string    // The user's given name.
	LastName  string    // The user's family name.
	Email     string    // The unique login identifier.
	Role      Role      // The user's role, defaulting to "user" at registration.
	CreatedAt time.Time // Timestamp of when this account was created.
	UpdatedAt time.Time // Timestamp of the last modification to this record.
}
