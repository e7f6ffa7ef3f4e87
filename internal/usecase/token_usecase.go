package usecase

import (
	"context"

	"taskflow/internal/domain/entity"

	"github.com/google/uuid"
)

// VerifyEmailInput carries the opaque token value presented by the client.
type VerifyEmailInput struct {
	Token string
}

// VerifyEmailOutput identifies the account whose email was just verified.
type VerifyEmailOutput struct {
	UserID uuid.UUID
	Email  string
}

// TokenUsecase defines the operations on persisted single-purpose tokens
// (email verification and similar), as opposed to the stateless bearer tokens
// issued at login.
type TokenUsecase interface {
	// VerifyEmail consumes an email-verification token. A token can be
	// consumed once; revoked, expired or unknown tokens are rejected.
	VerifyEmail(ctx context.Context, input VerifyEmailInput) (*VerifyEmailOutput, error)

	// Revoke marks a token as revoked without consuming it for its purpose.
	Revoke(ctx context.Context, value string) error

	// ListForUser returns all token records belonging to the given user.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*entity.AuthToken, error)

	// PurgeExpired deletes token records past their expiry and returns the
	// number removed.
	PurgeExpired(ctx context.Context) (int64, error)
}
