// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"taskflow/config"
	deliverycontext "taskflow/internal/delivery/context"
	"taskflow/internal/domain/entity"
	domainerrors "taskflow/internal/domain/errors"
	"taskflow/internal/domain/repository"
	"taskflow/internal/domain/security"
	"taskflow/internal/domain/service"
	"taskflow/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// verificationTokenTTL is how long an email-verification token stays valid.
const verificationTokenTTL = 24 * time.Hour

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	hasher       service.PasswordHasher
	tokenService service.TokenService
	cfg          *config.Config
	logger       *slog.Logger

	// now is swapped out in tests to drive the lockout clock.
	now func() time.Time
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all
// dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		cfg:          params.Config,
		logger:       params.Logger,
		now:          time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to
// the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// policy rebuilds the lockout policy from configuration on every call, so a
// configuration change applies to the next attempt without a restart.
func (srv *authService) policy() security.Policy {
	if srv.cfg == nil || srv.cfg.Auth == nil {
		return security.DefaultPolicy()
	}

	return security.Policy{
		MaxAttempts:  srv.cfg.Auth.MaxFailedAttempts,
		LockDuration: srv.cfg.Auth.LockDuration,
	}
}

// Register orchestrates the complete account registration: user, credential,
// security state and email-verification token are created in one transaction,
// so a failure at any step leaves no partial account behind.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	role := input.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetailsf("unknown role %q", input.Role)
	}

	var out *usecase.RegisterOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, err := userRepo.FindByEmail(ctx, input.Email)
		if err == nil {
			return domainerrors.ErrUserAlreadyExists
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check for existing account")
		}

		hash, err := srv.hasher.EnsureHashed(input.Password)
		if err != nil {
			return errors.Wrap(err, "failed to hash password during registration")
		}

		newUser := &entity.User{
			ID:        uuid.New(),
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Email:     input.Email,
			Role:      role,
		}
		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		cred := &entity.Credential{
			ID:           uuid.New(),
			UserID:       newUser.ID,
			PasswordHash: hash,
		}
		if err := repoFactory.CredentialRepo().Create(ctx, cred); err != nil {
			return errors.Wrap(err, "failed to create credential during registration")
		}

		sec := &entity.AccountSecurity{
			ID:     uuid.New(),
			UserID: newUser.ID,
		}
		if err := repoFactory.SecurityRepo().Create(ctx, sec); err != nil {
			return errors.Wrap(err, "failed to create security state during registration")
		}

		verification := &entity.AuthToken{
			ID:        uuid.New(),
			UserID:    newUser.ID,
			Type:      entity.TokenEmailVerification,
			Value:     uuid.NewString(),
			ExpiresAt: srv.now().Add(verificationTokenTTL),
			Metadata:  map[string]string{"purpose": "verify email address"},
		}
		if err := repoFactory.TokenRepo().Create(ctx, verification); err != nil {
			return errors.Wrap(err, "failed to create verification token during registration")
		}

		out = &usecase.RegisterOutput{User: newUser, VerificationToken: verification.Value}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		if domainerrors.IsAppError(err) {
			return nil, err
		}

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", out.User.ID))

	return out, nil
}

// Login verifies credentials under the account lockout rules. The whole
// attempt runs in one transaction against a row-locked security state, so
// concurrent attempts against the same account are counted exactly.
//
// Typed failures (bad password, locked account) are captured in loginErr and
// the transaction callback returns nil: the failure itself must commit, since
// the incremented counter and any new lock have to survive the rejected
// attempt.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	var (
		out      *usecase.LoginOutput
		loginErr error
	)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := repoFactory.UserRepo().FindByEmail(ctx, input.Email)
		if errors.Is(err, repository.ErrUserNotFound) {
			// Nothing to record: there is no account to count attempts against.
			loginErr = domainerrors.ErrInvalidCredentials

			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to look up account for login")
		}

		secRepo := repoFactory.SecurityRepo()
		sec, err := secRepo.FindByUserIDForUpdate(ctx, user.ID)
		if errors.Is(err, repository.ErrSecurityStateNotFound) {
			// Accounts created before lockout tracking existed self-heal here.
			sec = &entity.AccountSecurity{ID: uuid.New(), UserID: user.ID}
			if err := secRepo.Create(ctx, sec); err != nil {
				return errors.Wrap(err, "failed to initialize security state")
			}
		} else if err != nil {
			return errors.Wrap(err, "failed to load security state for login")
		}

		pol := srv.policy()
		now := srv.now()

		if pol.IsLocked(sec, now) {
			loginErr = domainerrors.ErrAccountLocked.WithDetailsf(
				"try again in %d minute(s)", security.RemainingLockMinutes(sec, now))

			return nil
		}

		cred, err := repoFactory.CredentialRepo().FindByUserID(ctx, user.ID)
		if errors.Is(err, repository.ErrCredentialNotFound) {
			// An account with no stored credential can never match; the
			// attempt still counts against the lockout budget.
			rejection, err := srv.recordFailure(ctx, secRepo, pol, sec, now, input.Client)
			if err != nil {
				return err
			}
			loginErr = rejection

			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to load credential for login")
		}

		if !srv.hasher.Check(input.Password, cred.PasswordHash) {
			rejection, err := srv.recordFailure(ctx, secRepo, pol, sec, now, input.Client)
			if err != nil {
				return err
			}
			loginErr = rejection

			return nil
		}

		accessToken, err := srv.tokenService.Sign(user)
		if err != nil {
			return errors.Wrap(err, "failed to sign access token")
		}

		pol.RecordSuccess(sec, now, input.Client.IP, input.Client.UserAgent, entity.DeviceInfo{
			Browser:    input.Client.Browser,
			OS:         input.Client.OS,
			DeviceType: input.Client.Device,
		})
		if err := secRepo.Update(ctx, sec); err != nil {
			return errors.Wrap(err, "failed to persist security state after login")
		}

		out = &usecase.LoginOutput{
			AccessToken: accessToken,
			ExpiresIn:   int64(srv.tokenService.AccessTokenTTL() / time.Second),
			User:        user,
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute login transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute login transaction")
	}

	if loginErr != nil {
		srv.log(ctx).Warn("Login rejected", slog.String("email", input.Email), slog.Any("error", loginErr))

		return nil, loginErr
	}

	srv.log(ctx).Info("Login succeeded", slog.Any("userID", out.User.ID))

	return out, nil
}

// recordFailure applies the failure transition, persists it and returns the
// typed rejection the attempt should surface. A persistence error is returned
// separately so the caller can fail the transaction instead of the attempt.
func (srv *authService) recordFailure(
	ctx context.Context,
	secRepo repository.SecurityRepository,
	pol security.Policy,
	sec *entity.AccountSecurity,
	now time.Time,
	client usecase.ClientContext,
) (*domainerrors.BaseError, error) {
	pol.RecordFailure(sec, now, client.IP, client.UserAgent)

	if err := secRepo.Update(ctx, sec); err != nil {
		return nil, errors.Wrap(err, "failed to persist failed login attempt")
	}

	if sec.LockUntil != nil {
		return domainerrors.ErrAccountJustLocked.WithDetailsf(
			"account locked for %d minute(s)", security.RemainingLockMinutes(sec, now)), nil
	}

	return domainerrors.ErrInvalidCredentials.WithDetailsf(
		"%d attempt(s) remaining before lockout", pol.RemainingAttempts(sec)), nil
}
