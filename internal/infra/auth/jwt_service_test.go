package auth

import (
	"testing"
	"time"

	"taskflow/config"
	"taskflow/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testJWTConfig(ttl time.Duration) *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret: "test_secret_key_very_long_for_testing",
			TTL:    ttl,
		},
	}
}

func TestJWTService_SignAndValidate(t *testing.T) {
	svc, err := NewJWTService(testJWTConfig(time.Hour))
	assert.NoError(t, err)
	assert.NotNil(t, svc)

	user := &entity.User{
		ID:    uuid.New(),
		Email: "alice@example.com",
		Role:  entity.RoleAdmin,
	}

	token, err := svc.Sign(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWTService_RequiresSecret(t *testing.T) {
	svc, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc, err := NewJWTService(testJWTConfig(time.Hour))
	assert.NoError(t, err)

	claims, err := svc.Validate("clearly-not-a-jwt")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	signer, err := NewJWTService(testJWTConfig(time.Hour))
	assert.NoError(t, err)

	otherCfg := testJWTConfig(time.Hour)
	otherCfg.JWT.Secret = "a_completely_different_secret_key"
	verifier, err := NewJWTService(otherCfg)
	assert.NoError(t, err)

	token, err := signer.Sign(&entity.User{ID: uuid.New(), Email: "a@b.c", Role: entity.RoleUser})
	assert.NoError(t, err)

	claims, err := verifier.Validate(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc, err := NewJWTService(testJWTConfig(-time.Minute))
	assert.NoError(t, err)

	// TTL defaults to an hour when non-positive, so build a service whose ttl
	// really is negative to mint an already-expired token.
	svc.(*jwtService).ttl = -time.Minute

	token, err := svc.Sign(&entity.User{ID: uuid.New(), Email: "a@b.c", Role: entity.RoleUser})
	assert.NoError(t, err)

	claims, err := svc.Validate(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_AccessTokenTTL(t *testing.T) {
	svc, err := NewJWTService(testJWTConfig(30 * time.Minute))
	assert.NoError(t, err)
	assert.Equal(t, 30*time.Minute, svc.AccessTokenTTL())

	svc, err = NewJWTService(testJWTConfig(0))
	assert.NoError(t, err)
	assert.Equal(t, time.Hour, svc.AccessTokenTTL())
}
