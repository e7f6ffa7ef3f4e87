// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"taskflow/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrSecurityStateNotFound is returned when no security state exists for a user.
var ErrSecurityStateNotFound = errors.New("account security state not found")

// SecurityRepository defines the operations for account security state
// persistence. Login attempts read-modify-write this row, so the locked read
// variant exists to serialize concurrent attempts against the same account.
type SecurityRepository interface {
	// FindByUserID retrieves the security state belonging to the given user.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.AccountSecurity, error)

	// FindByUserIDForUpdate retrieves the security state with a row-level lock.
	// Must be called inside a transaction; the lock is held until commit.
	FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*entity.AccountSecurity, error)

	// Create persists a freshly initialized security state.
	Create(ctx context.Context, sec *entity.AccountSecurity) error

	// Update persists counter and lock transitions for an existing state.
	Update(ctx context.Context, sec *entity.AccountSecurity) error
}
