package service

import (
	"time"

	"taskflow/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims carried by signed bearer tokens.
type Claims struct {
	UserID uuid.UUID `json:"-"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for signing and validating bearer tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// Sign creates a signed bearer token for the given user.
	Sign(user *entity.User) (string, error)

	// Validate checks a token string and returns its claims when valid.
	Validate(tokenString string) (*Claims, error)

	// AccessTokenTTL returns the configured lifetime of signed tokens.
	AccessTokenTTL() time.Duration
}
