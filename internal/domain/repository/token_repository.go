// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"taskflow/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrTokenNotFound is returned when an auth token record is not found.
var ErrTokenNotFound = errors.New("auth token not found")

// TokenRepository defines the operations for persisted auth token records
// (email verification, password reset and similar single-purpose tokens).
type TokenRepository interface {
	// Create persists a new token record.
	Create(ctx context.Context, token *entity.AuthToken) error

	// FindByValue retrieves a token record by its opaque value.
	FindByValue(ctx context.Context, value string) (*entity.AuthToken, error)

	// FindByUserID retrieves all token records belonging to a user.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.AuthToken, error)

	// Update persists revocation state changes for an existing token.
	Update(ctx context.Context, token *entity.AuthToken) error

	// DeleteExpired removes token records past their expiry. Returns the
	// number of rows removed; intended for periodic cleanup.
	DeleteExpired(ctx context.Context) (int64, error)
}
