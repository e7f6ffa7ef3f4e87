package impl

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"taskflow/config"
	"taskflow/internal/domain/entity"
	"taskflow/internal/domain/repository"
	"taskflow/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(maxAttempts int, lockDuration time.Duration) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:        4,
			MaxFailedAttempts: maxAttempts,
			LockDuration:      lockDuration,
		},
		JWT: config.JWTConfig{Secret: "test-secret", TTL: time.Hour},
	}
}

// --- in-memory repositories ---
//
// The fakes copy entities on the way in and out, so state only changes when
// the code under test calls Update, same as with a real database.

type fakeStore struct {
	users       map[uuid.UUID]*entity.User
	credentials map[uuid.UUID]*entity.Credential      // keyed by user id
	security    map[uuid.UUID]*entity.AccountSecurity // keyed by user id
	tokens      map[string]*entity.AuthToken          // keyed by value
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[uuid.UUID]*entity.User),
		credentials: make(map[uuid.UUID]*entity.Credential),
		security:    make(map[uuid.UUID]*entity.AccountSecurity),
		tokens:      make(map[string]*entity.AuthToken),
	}
}

func (s *fakeStore) UserRepo() repository.UserRepository             { return &fakeUserRepo{s} }
func (s *fakeStore) CredentialRepo() repository.CredentialRepository { return &fakeCredentialRepo{s} }
func (s *fakeStore) SecurityRepo() repository.SecurityRepository     { return &fakeSecurityRepo{s} }
func (s *fakeStore) TokenRepo() repository.TokenRepository           { return &fakeTokenRepo{s} }

// fakeTxManager runs the callback directly against the shared store. Typed
// failures commit by contract, and the fakes apply writes immediately, which
// matches the behavior the use cases rely on.
type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.store)
}

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user

	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.s.users {
		if user.Email == email {
			copied := *user

			return &copied, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	copied := *user
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	r.s.users[copied.ID] = &copied

	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*entity.User, error) {
	users := make([]*entity.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })

	return users, nil
}

type fakeCredentialRepo struct{ s *fakeStore }

func (r *fakeCredentialRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Credential, error) {
	cred, ok := r.s.credentials[userID]
	if !ok {
		return nil, repository.ErrCredentialNotFound
	}
	copied := *cred

	return &copied, nil
}

func (r *fakeCredentialRepo) Create(_ context.Context, cred *entity.Credential) error {
	copied := *cred
	r.s.credentials[copied.UserID] = &copied

	return nil
}

type fakeSecurityRepo struct{ s *fakeStore }

func (r *fakeSecurityRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.AccountSecurity, error) {
	sec, ok := r.s.security[userID]
	if !ok {
		return nil, repository.ErrSecurityStateNotFound
	}
	copied := *sec

	return &copied, nil
}

func (r *fakeSecurityRepo) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*entity.AccountSecurity, error) {
	return r.FindByUserID(ctx, userID)
}

func (r *fakeSecurityRepo) Create(_ context.Context, sec *entity.AccountSecurity) error {
	copied := *sec
	r.s.security[copied.UserID] = &copied

	return nil
}

func (r *fakeSecurityRepo) Update(_ context.Context, sec *entity.AccountSecurity) error {
	if _, ok := r.s.security[sec.UserID]; !ok {
		return repository.ErrSecurityStateNotFound
	}
	copied := *sec
	r.s.security[copied.UserID] = &copied

	return nil
}

type fakeTokenRepo struct{ s *fakeStore }

func (r *fakeTokenRepo) Create(_ context.Context, token *entity.AuthToken) error {
	copied := *token
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	r.s.tokens[copied.Value] = &copied

	return nil
}

func (r *fakeTokenRepo) FindByValue(_ context.Context, value string) (*entity.AuthToken, error) {
	token, ok := r.s.tokens[value]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}
	copied := *token

	return &copied, nil
}

func (r *fakeTokenRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.AuthToken, error) {
	var tokens []*entity.AuthToken
	for _, token := range r.s.tokens {
		if token.UserID == userID {
			copied := *token
			tokens = append(tokens, &copied)
		}
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].CreatedAt.After(tokens[j].CreatedAt) })

	return tokens, nil
}

func (r *fakeTokenRepo) Update(_ context.Context, token *entity.AuthToken) error {
	for value, stored := range r.s.tokens {
		if stored.ID == token.ID {
			copied := *token
			r.s.tokens[value] = &copied

			return nil
		}
	}

	return repository.ErrTokenNotFound
}

func (r *fakeTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	var removed int64
	now := time.Now()
	for value, token := range r.s.tokens {
		if !token.ExpiresAt.After(now) {
			delete(r.s.tokens, value)
			removed++
		}
	}

	return removed, nil
}

// --- service doubles ---

// stubHasher hashes by prefixing, which keeps stored values inspectable.
type stubHasher struct {
	checkCalls int
}

func (h *stubHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (h *stubHasher) Check(password, hash string) bool {
	h.checkCalls++

	return hash == "hashed:"+password
}

func (h *stubHasher) EnsureHashed(value string) (string, error) {
	if strings.HasPrefix(value, "hashed:") {
		return value, nil
	}

	return h.Hash(value)
}

type stubSigner struct {
	failSign bool
}

func (s *stubSigner) Sign(user *entity.User) (string, error) {
	if s.failSign {
		return "", errors.New("signer unavailable")
	}

	return "signed-token-for-" + user.Email, nil
}

func (s *stubSigner) Validate(string) (*service.Claims, error) {
	return nil, errors.New("not implemented in stub")
}

func (s *stubSigner) AccessTokenTTL() time.Duration {
	return time.Hour
}
