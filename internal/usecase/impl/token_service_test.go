package impl

import (
	"context"
	"testing"
	"time"

	"taskflow/internal/domain/entity"
	domainerrors "taskflow/internal/domain/errors"
	"taskflow/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenFixture struct {
	svc   *tokenService
	store *fakeStore
	clock time.Time
}

func newTokenFixture(t *testing.T) *tokenFixture {
	t.Helper()

	f := &tokenFixture{
		store: newFakeStore(),
		clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	svc := NewTokenService(TokenServiceParams{
		TxManager: &fakeTxManager{store: f.store},
		TokenRepo: f.store.TokenRepo(),
		Logger:    newDiscardLogger(),
	}).(*tokenService)
	svc.now = func() time.Time { return f.clock }
	f.svc = svc

	return f
}

func (f *tokenFixture) seedToken(t *testing.T, tokenType entity.TokenType, expiresAt time.Time) *entity.AuthToken {
	t.Helper()

	user := &entity.User{ID: uuid.New(), Email: "alice@example.com", Role: entity.RoleUser}
	require.NoError(t, f.store.UserRepo().Create(context.Background(), user))

	token := &entity.AuthToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Type:      tokenType,
		Value:     uuid.NewString(),
		ExpiresAt: expiresAt,
	}
	require.NoError(t, f.store.TokenRepo().Create(context.Background(), token))

	return token
}

func TestTokenService_VerifyEmail_ConsumesToken(t *testing.T) {
	f := newTokenFixture(t)
	token := f.seedToken(t, entity.TokenEmailVerification, f.clock.Add(24*time.Hour))

	out, err := f.svc.VerifyEmail(context.Background(), usecase.VerifyEmailInput{Token: token.Value})
	require.NoError(t, err)
	assert.Equal(t, token.UserID, out.UserID)
	assert.Equal(t, "alice@example.com", out.Email)

	stored := f.store.tokens[token.Value]
	assert.True(t, stored.Revoked)
	require.NotNil(t, stored.RevokedAt)
	assert.Equal(t, f.clock, *stored.RevokedAt)

	// Second presentation is a replay and must fail.
	out, err = f.svc.VerifyEmail(context.Background(), usecase.VerifyEmailInput{Token: token.Value})
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestTokenService_VerifyEmail_UnknownToken(t *testing.T) {
	f := newTokenFixture(t)

	out, err := f.svc.VerifyEmail(context.Background(), usecase.VerifyEmailInput{Token: "no-such-token"})
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestTokenService_VerifyEmail_ExpiredToken(t *testing.T) {
	f := newTokenFixture(t)
	token := f.seedToken(t, entity.TokenEmailVerification, f.clock.Add(-time.Minute))

	out, err := f.svc.VerifyEmail(context.Background(), usecase.VerifyEmailInput{Token: token.Value})
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
	assert.False(t, f.store.tokens[token.Value].Revoked)
}

func TestTokenService_VerifyEmail_WrongPurpose(t *testing.T) {
	f := newTokenFixture(t)
	token := f.seedToken(t, entity.TokenPasswordReset, f.clock.Add(24*time.Hour))

	out, err := f.svc.VerifyEmail(context.Background(), usecase.VerifyEmailInput{Token: token.Value})
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestTokenService_Revoke(t *testing.T) {
	f := newTokenFixture(t)
	token := f.seedToken(t, entity.TokenEmailVerification, f.clock.Add(24*time.Hour))

	require.NoError(t, f.svc.Revoke(context.Background(), token.Value))
	assert.True(t, f.store.tokens[token.Value].Revoked)

	// Revoking again is a no-op, not an error.
	assert.NoError(t, f.svc.Revoke(context.Background(), token.Value))

	err := f.svc.Revoke(context.Background(), "no-such-token")
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestTokenService_ListForUser(t *testing.T) {
	f := newTokenFixture(t)
	token := f.seedToken(t, entity.TokenEmailVerification, f.clock.Add(24*time.Hour))

	tokens, err := f.svc.ListForUser(context.Background(), token.UserID)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, token.Value, tokens[0].Value)

	tokens, err = f.svc.ListForUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestTokenService_PurgeExpired(t *testing.T) {
	f := newTokenFixture(t)
	expired := f.seedToken(t, entity.TokenEmailVerification, time.Now().Add(-time.Hour))
	alive := f.seedToken(t, entity.TokenEmailVerification, time.Now().Add(time.Hour))

	removed, err := f.svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, ok := f.store.tokens[expired.Value]
	assert.False(t, ok)
	_, ok = f.store.tokens[alive.Value]
	assert.True(t, ok)
}
