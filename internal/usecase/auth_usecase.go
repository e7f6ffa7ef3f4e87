// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"taskflow/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      entity.Role
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string
	Password string
	Client   ClientContext
}

// ClientContext carries the request descriptors recorded alongside login
// attempts. All fields are optional.
type ClientContext struct {
	IP        string
	UserAgent string
	Browser   string
	OS        string
	Device    string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user together with the emitted
// email-verification token value.
type RegisterOutput struct {
	User              *entity.User
	VerificationToken string
}

// LoginOutput returns the signed access token after a successful login.
type LoginOutput struct {
	AccessToken string
	ExpiresIn   int64
	User        *entity.User
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer depends on.
type AuthUsecase interface {
	// Register creates the user, credential, security state and verification
	// token atomically. A duplicate email fails the whole operation.
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)

	// Login verifies credentials under the account lockout rules and returns
	// a signed access token on success.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
}
