// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// TokenType enumerates the purposes a persisted auth token can serve.
type TokenType string

const (
	// TokenRefresh marks a long-lived session token.
	TokenRefresh TokenType = "refresh"
	// TokenPasswordReset marks a single-use password reset token.
	TokenPasswordReset TokenType = "password_reset"
	// TokenEmailVerification marks a single-use email verification token.
	TokenEmailVerification TokenType = "email_verification"
	// TokenAPIAccess marks a long-lived API access token.
	TokenAPIAccess TokenType = "api_access"
)

// String returns the string representation of the TokenType.
func (t TokenType) String() string {
	return string(t)
}

// IsValid checks if the TokenType is a valid value.
func (t TokenType) IsValid() bool {
	switch t {
	case TokenRefresh, TokenPasswordReset, TokenEmailVerification, TokenAPIAccess:
		return true
	default:
		return false
	}
}

// AuthToken is a persisted token record used for single-purpose flows such as
// email verification. The value is an unguessable opaque string, not a signed
// bearer token. Revocation is a one-way transition.
type AuthToken struct {
	ID        uuid.UUID         // The unique ID for this token record.
	UserID    uuid.UUID         // Links this token to the User it belongs to.
	Type      TokenType         // The purpose of this token.
	Value     string            // The opaque, randomly generated token value.
	ExpiresAt time.Time         // The time after which this token is no longer valid.
	Revoked   bool              // Whether this token has been revoked (one-way).
	RevokedAt *time.Time        // When the token was revoked, if it was.
	IPAddress string            // Issuing client IP, if known.
	UserAgent string            // Issuing client User-Agent, if known.
	Metadata  map[string]string // Free-form metadata, e.g. the token's purpose.
	CreatedAt time.Time         // Timestamp of when this token was issued.
}

// Usable reports whether the token can still be presented at the given time.
// A token is usable until it is revoked or its expiry passes.
func (t *AuthToken) Usable(now time.Time) bool {
	return !t.Revoked && t.ExpiresAt.After(now)
}
