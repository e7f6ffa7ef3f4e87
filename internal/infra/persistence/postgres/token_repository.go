package postgres

import (
	"context"
	"encoding/json"
	"time"

	"taskflow/internal/domain/entity"
	domainerrors "taskflow/internal/domain/errors"
	"taskflow/internal/domain/repository"
	"taskflow/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// tokenRepository implements the domain's TokenRepository interface using GORM.
type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository is the constructor for tokenRepository.
func NewTokenRepository(db *gorm.DB) repository.TokenRepository {
	return &tokenRepository{db: db}
}

// Create persists a new token record.
func (repo *tokenRepository) Create(ctx context.Context, token *entity.AuthToken) error {
	tokenM, err := fromTokenDomain(token)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrTokenInvalid.WrapMessage("token value already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("token references unknown user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create token")
	}

	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// FindByValue retrieves a token record by its opaque value.
func (repo *tokenRepository) FindByValue(ctx context.Context, value string) (*entity.AuthToken, error) {
	var tokenM model.AuthTokenModel
	err := repo.db.WithContext(ctx).First(&tokenM, "value = ?", value).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTokenNotFound
		}

		return nil, errors.Wrap(err, "failed to find token by value")
	}

	return toTokenDomain(&tokenM)
}

// FindByUserID retrieves all token records belonging to a user, newest first.
func (repo *tokenRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.AuthToken, error) {
	var tokenMs []model.AuthTokenModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tokenMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find tokens by user id")
	}

	tokens := make([]*entity.AuthToken, 0, len(tokenMs))
	for i := range tokenMs {
		token, err := toTokenDomain(&tokenMs[i])
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}

	return tokens, nil
}

// Update persists revocation state changes for an existing token.
func (repo *tokenRepository) Update(ctx context.Context, token *entity.AuthToken) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AuthTokenModel{}).
		Where("id = ?", token.ID).
		Updates(map[string]any{
			"revoked":    token.Revoked,
			"revoked_at": token.RevokedAt,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTokenNotFound
	}

	return nil
}

// DeleteExpired removes token records past their expiry.
func (repo *tokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&model.AuthTokenModel{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete expired tokens")
	}

	return result.RowsAffected, nil
}

// --- mappers ---

func toTokenDomain(tokenM *model.AuthTokenModel) (*entity.AuthToken, error) {
	var metadata map[string]string
	if len(tokenM.Metadata) > 0 {
		if err := json.Unmarshal(tokenM.Metadata, &metadata); err != nil {
			return nil, errors.Wrap(err, "failed to decode token metadata")
		}
	}

	return &entity.AuthToken{
		ID:        tokenM.ID,
		UserID:    tokenM.UserID,
		Type:      entity.TokenType(tokenM.Type),
		Value:     tokenM.Value,
		ExpiresAt: tokenM.ExpiresAt,
		Revoked:   tokenM.Revoked,
		RevokedAt: tokenM.RevokedAt,
		IPAddress: tokenM.IPAddress,
		UserAgent: tokenM.UserAgent,
		Metadata:  metadata,
		CreatedAt: tokenM.CreatedAt,
	}, nil
}

func fromTokenDomain(token *entity.AuthToken) (*model.AuthTokenModel, error) {
	var metadata []byte
	if len(token.Metadata) > 0 {
		encoded, err := json.Marshal(token.Metadata)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode token metadata")
		}
		metadata = encoded
	}

	return &model.AuthTokenModel{
		ID:        token.ID,
		UserID:    token.UserID,
		Type:      token.Type.String(),
		Value:     token.Value,
		ExpiresAt: token.ExpiresAt,
		Revoked:   token.Revoked,
		RevokedAt: token.RevokedAt,
		IPAddress: token.IPAddress,
		UserAgent: token.UserAgent,
		Metadata:  metadata,
		CreatedAt: token.CreatedAt,
	}, nil
}
