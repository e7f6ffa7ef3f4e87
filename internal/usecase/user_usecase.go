package usecase

import (
	"context"

	"taskflow/internal/domain/entity"

	"github.com/google/uuid"
)

// UserUsecase defines read operations over registered accounts.
type UserUsecase interface {
	// List returns all users, ordered by creation time. Admin only; the
	// delivery layer enforces the role, the use case just reads.
	List(ctx context.Context) ([]*entity.User, error)

	// Get returns a single user. Callers may read their own account; admins
	// may read any.
	Get(ctx context.Context, requesterID uuid.UUID, requesterRole entity.Role, id uuid.UUID) (*entity.User, error)
}
