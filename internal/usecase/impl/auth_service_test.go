package impl

import (
	"context"
	"testing"
	"time"

	"taskflow/internal/domain/entity"
	domainerrors "taskflow/internal/domain/errors"
	"taskflow/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authFixture wires the auth service against in-memory fakes with a
// controllable clock.
type authFixture struct {
	svc    *authService
	store  *fakeStore
	hasher *stubHasher
	signer *stubSigner
	clock  time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	f := &authFixture{
		store:  newFakeStore(),
		hasher: &stubHasher{},
		signer: &stubSigner{},
		clock:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	svc := NewAuthService(AuthServiceParams{
		TxManager:    &fakeTxManager{store: f.store},
		Hasher:       f.hasher,
		TokenService: f.signer,
		Config:       newTestConfig(4, 2*time.Minute),
		Logger:       newDiscardLogger(),
	}).(*authService)
	svc.now = func() time.Time { return f.clock }
	f.svc = svc

	return f
}

func (f *authFixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func (f *authFixture) register(t *testing.T, email, password string) *usecase.RegisterOutput {
	t.Helper()

	out, err := f.svc.Register(context.Background(), usecase.RegisterInput{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     email,
		Password:  password,
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	return out
}

func (f *authFixture) login(email, password string) (*usecase.LoginOutput, error) {
	return f.svc.Login(context.Background(), usecase.LoginInput{
		Email:    email,
		Password: password,
		Client: usecase.ClientContext{
			IP:        "203.0.113.7",
			UserAgent: "test-agent/1.0",
			Browser:   "Chrome",
			OS:        "macOS",
			Device:    "desktop",
		},
	})
}

func TestAuthService_Register_CreatesFullAccount(t *testing.T) {
	f := newAuthFixture(t)

	out := f.register(t, "alice@example.com", "Secret123")

	assert.Equal(t, entity.RoleUser, out.User.Role)
	assert.NotEmpty(t, out.VerificationToken)

	cred, ok := f.store.credentials[out.User.ID]
	require.True(t, ok)
	assert.Equal(t, "hashed:Secret123", cred.PasswordHash)

	sec, ok := f.store.security[out.User.ID]
	require.True(t, ok)
	assert.Zero(t, sec.FailedAttempts)
	assert.Nil(t, sec.LockUntil)

	token, ok := f.store.tokens[out.VerificationToken]
	require.True(t, ok)
	assert.Equal(t, entity.TokenEmailVerification, token.Type)
	assert.Equal(t, out.User.ID, token.UserID)
	assert.Equal(t, f.clock.Add(24*time.Hour), token.ExpiresAt)
	assert.False(t, token.Revoked)
}

func TestAuthService_Register_AlreadyHashedPasswordNotRehashed(t *testing.T) {
	f := newAuthFixture(t)

	out := f.register(t, "alice@example.com", "hashed:Imported1")

	cred := f.store.credentials[out.User.ID]
	assert.Equal(t, "hashed:Imported1", cred.PasswordHash)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", "Secret123")

	out, err := f.svc.Register(context.Background(), usecase.RegisterInput{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "alice@example.com",
		Password:  "Another123",
	})
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))

	assert.Len(t, f.store.users, 1)
	assert.Len(t, f.store.credentials, 1)
	assert.Len(t, f.store.tokens, 1)
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	f := newAuthFixture(t)

	out, err := f.svc.Register(context.Background(), usecase.RegisterInput{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Password:  "Secret123",
		Role:      "superuser",
	})
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.Empty(t, f.store.users)
}

func TestAuthService_Register_ExplicitRolePreserved(t *testing.T) {
	f := newAuthFixture(t)

	out, err := f.svc.Register(context.Background(), usecase.RegisterInput{
		FirstName: "Root",
		LastName:  "Admin",
		Email:     "admin@example.com",
		Password:  "Secret123",
		Role:      entity.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	out, err := f.login("nobody@example.com", "whatever")
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	// Without an account there is no hash to compare against.
	assert.Zero(t, f.hasher.checkCalls)
}

func TestAuthService_Login_WrongPasswordIncrements(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "alice@example.com", "Secret123")

	out, err := f.login("alice@example.com", "Wrong123")
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Details(), "3 attempt(s) remaining")

	sec := f.store.security[reg.User.ID]
	assert.Equal(t, 1, sec.FailedAttempts)
	assert.Nil(t, sec.LockUntil)
	require.NotNil(t, sec.LastFailedLogin)
	assert.Equal(t, f.clock, *sec.LastFailedLogin)
	assert.Equal(t, "203.0.113.7", sec.LastLoginIP)
	assert.Equal(t, "test-agent/1.0", sec.LastLoginUserAgent)
}

func TestAuthService_Login_LocksAtThreshold(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "alice@example.com", "Secret123")

	for i := 0; i < 3; i++ {
		_, err := f.login("alice@example.com", "Wrong123")
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	}

	out, err := f.login("alice@example.com", "Wrong123")
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountJustLocked))

	sec := f.store.security[reg.User.ID]
	assert.Equal(t, 4, sec.FailedAttempts)
	require.NotNil(t, sec.LockUntil)
	assert.Equal(t, f.clock.Add(2*time.Minute), *sec.LockUntil)
}

func TestAuthService_Login_LockedSkipsCredentialCheck(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "alice@example.com", "Secret123")

	for i := 0; i < 4; i++ {
		_, _ = f.login("alice@example.com", "Wrong123")
	}
	checksBefore := f.hasher.checkCalls

	// Correct password while locked is still rejected, without touching the
	// stored hash or the counter.
	out, err := f.login("alice@example.com", "Secret123")
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountLocked))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Details(), "2 minute(s)")

	assert.Equal(t, checksBefore, f.hasher.checkCalls)
	assert.Equal(t, 4, f.store.security[reg.User.ID].FailedAttempts)
}

func TestAuthService_Login_ExpiredLockAutoUnlocks(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "alice@example.com", "Secret123")

	for i := 0; i < 4; i++ {
		_, _ = f.login("alice@example.com", "Wrong123")
	}

	f.advance(2*time.Minute + time.Second)

	out, err := f.login("alice@example.com", "Secret123")
	require.NoError(t, err)
	require.NotNil(t, out)

	sec := f.store.security[reg.User.ID]
	assert.Zero(t, sec.FailedAttempts)
	assert.Nil(t, sec.LockUntil)
	assert.Nil(t, sec.LastFailedLogin)
	require.NotNil(t, sec.LastLogin)
	assert.Equal(t, f.clock, *sec.LastLogin)
	assert.Equal(t, "Chrome", sec.Browser)
	assert.Equal(t, "macOS", sec.OS)
	assert.Equal(t, "desktop", sec.DeviceType)
}

func TestAuthService_Login_ExpiredLockFailureStartsFresh(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "alice@example.com", "Secret123")

	for i := 0; i < 4; i++ {
		_, _ = f.login("alice@example.com", "Wrong123")
	}

	f.advance(3 * time.Minute)

	// The expired lock clears before the new failure is counted, so the
	// counter restarts at one instead of relocking immediately.
	_, err := f.login("alice@example.com", "Wrong123")
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	sec := f.store.security[reg.User.ID]
	assert.Equal(t, 1, sec.FailedAttempts)
	assert.Nil(t, sec.LockUntil)
}

func TestAuthService_Login_MissingCredentialCountsAttempt(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "alice@example.com", "Secret123")
	delete(f.store.credentials, reg.User.ID)

	out, err := f.login("alice@example.com", "Secret123")
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	assert.Equal(t, 1, f.store.security[reg.User.ID].FailedAttempts)
}

func TestAuthService_Login_MissingSecurityStateSelfHeals(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "alice@example.com", "Secret123")
	delete(f.store.security, reg.User.ID)

	_, err := f.login("alice@example.com", "Wrong123")
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	sec, ok := f.store.security[reg.User.ID]
	require.True(t, ok)
	assert.Equal(t, 1, sec.FailedAttempts)
}

func TestAuthService_Login_SuccessResetsCountersAndIssuesToken(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "alice@example.com", "Secret123")

	for i := 0; i < 2; i++ {
		_, _ = f.login("alice@example.com", "Wrong123")
	}

	out, err := f.login("alice@example.com", "Secret123")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "signed-token-for-alice@example.com", out.AccessToken)
	assert.Equal(t, int64(3600), out.ExpiresIn)
	assert.Equal(t, reg.User.ID, out.User.ID)

	sec := f.store.security[reg.User.ID]
	assert.Zero(t, sec.FailedAttempts)
	assert.Nil(t, sec.LastFailedLogin)
}

func TestAuthService_Login_SignerFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", "Secret123")
	f.signer.failSign = true

	out, err := f.login("alice@example.com", "Secret123")
	assert.Nil(t, out)
	require.Error(t, err)
	assert.False(t, domainerrors.IsAppError(err))
}
