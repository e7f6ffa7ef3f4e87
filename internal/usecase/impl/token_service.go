package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "taskflow/internal/delivery/context"
	"taskflow/internal/domain/entity"
	domainerrors "taskflow/internal/domain/errors"
	"taskflow/internal/domain/repository"
	"taskflow/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// tokenService implements the TokenUsecase interface over persisted
// single-purpose token records.
type tokenService struct {
	txManager repository.TransactionManager
	tokenRepo repository.TokenRepository
	logger    *slog.Logger

	now func() time.Time
}

// TokenServiceParams holds dependencies for tokenService, injected by Fx.
type TokenServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	TokenRepo repository.TokenRepository
	Logger    *slog.Logger
}

// NewTokenService is the constructor for tokenService.
func NewTokenService(params TokenServiceParams) usecase.TokenUsecase {
	return &tokenService{
		txManager: params.TxManager,
		tokenRepo: params.TokenRepo,
		logger:    params.Logger,
		now:       time.Now,
	}
}

func (srv *tokenService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// VerifyEmail consumes an email-verification token. The lookup and the
// consuming revocation run in one transaction so two concurrent presentations
// of the same value cannot both succeed.
func (srv *tokenService) VerifyEmail(ctx context.Context, input usecase.VerifyEmailInput) (*usecase.VerifyEmailOutput, error) {
	var out *usecase.VerifyEmailOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		token, err := repoFactory.TokenRepo().FindByValue(ctx, input.Token)
		if errors.Is(err, repository.ErrTokenNotFound) {
			return domainerrors.ErrTokenInvalid
		}
		if err != nil {
			return errors.Wrap(err, "failed to look up verification token")
		}

		now := srv.now()
		if token.Type != entity.TokenEmailVerification {
			return domainerrors.ErrTokenInvalid.WithDetails("token has a different purpose")
		}
		if !token.Usable(now) {
			if token.Revoked {
				return domainerrors.ErrTokenInvalid.WithDetails("token already used")
			}

			return domainerrors.ErrTokenInvalid.WithDetails("token expired")
		}

		// Consuming is a revocation, so replays fall out of the same check.
		token.Revoked = true
		revokedAt := now
		token.RevokedAt = &revokedAt
		if err := repoFactory.TokenRepo().Update(ctx, token); err != nil {
			return errors.Wrap(err, "failed to consume verification token")
		}

		user, err := repoFactory.UserRepo().FindByID(ctx, token.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to load account for verification token")
		}

		out = &usecase.VerifyEmailOutput{UserID: user.ID, Email: user.Email}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Email verification rejected", slog.Any("error", err))

		if domainerrors.IsAppError(err) {
			return nil, err
		}

		return nil, errors.Wrap(err, "failed to execute email verification transaction")
	}

	srv.log(ctx).Info("Email verified", slog.Any("userID", out.UserID))

	return out, nil
}

// Revoke marks a token record as revoked. Revoking twice is not an error.
func (srv *tokenService) Revoke(ctx context.Context, value string) error {
	token, err := srv.tokenRepo.FindByValue(ctx, value)
	if errors.Is(err, repository.ErrTokenNotFound) {
		return domainerrors.ErrTokenInvalid
	}
	if err != nil {
		return errors.Wrap(err, "failed to look up token for revocation")
	}

	if token.Revoked {
		return nil
	}

	token.Revoked = true
	revokedAt := srv.now()
	token.RevokedAt = &revokedAt

	if err := srv.tokenRepo.Update(ctx, token); err != nil {
		return errors.Wrap(err, "failed to revoke token")
	}

	srv.log(ctx).Info("Token revoked", slog.Any("tokenID", token.ID))

	return nil
}

// ListForUser returns all token records belonging to the given user.
func (srv *tokenService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*entity.AuthToken, error) {
	tokens, err := srv.tokenRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tokens for user")
	}

	return tokens, nil
}

// PurgeExpired deletes token records past their expiry.
func (srv *tokenService) PurgeExpired(ctx context.Context) (int64, error) {
	removed, err := srv.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to purge expired tokens")
	}

	if removed > 0 {
		srv.log(ctx).Info("Purged expired tokens", slog.Int64("removed", removed))
	}

	return removed, nil
}
