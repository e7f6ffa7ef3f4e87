package postgres

import (
	"context"

	"taskflow/internal/domain/entity"
	domainerrors "taskflow/internal/domain/errors"
	"taskflow/internal/domain/repository"
	"taskflow/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// credentialRepository implements the domain's CredentialRepository interface
// using GORM.
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository is the constructor for credentialRepository.
func NewCredentialRepository(db *gorm.DB) repository.CredentialRepository {
	return &credentialRepository{db: db}
}

// FindByUserID retrieves the credential belonging to the given user.
func (repo *credentialRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Credential, error) {
	var credM model.CredentialModel
	err := repo.db.WithContext(ctx).First(&credM, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCredentialNotFound
		}

		return nil, errors.Wrap(err, "failed to find credential by user id")
	}

	return toCredentialDomain(&credM), nil
}

// Create persists a new credential.
func (repo *credentialRepository) Create(ctx context.Context, cred *entity.Credential) error {
	credM := fromCredentialDomain(cred)

	if err := repo.db.WithContext(ctx).Create(credM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("credential already exists for user")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("credential references unknown user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create credential")
	}

	cred.CreatedAt = credM.CreatedAt
	cred.UpdatedAt = credM.UpdatedAt

	return nil
}

// --- mappers ---

func toCredentialDomain(credM *model.CredentialModel) *entity.Credential {
	return &entity.Credential{
		ID:           credM.ID,
		UserID:       credM.UserID,
		PasswordHash: credM.PasswordHash,
		CreatedAt:    credM.CreatedAt,
		UpdatedAt:    credM.UpdatedAt,
	}
}

func fromCredentialDomain(cred *entity.Credential) *model.CredentialModel {
	return &model.CredentialModel{
		ID:           cred.ID,
		UserID:       cred.UserID,
		PasswordHash: cred.PasswordHash,
		CreatedAt:    cred.CreatedAt,
		UpdatedAt:    cred.UpdatedAt,
	}
}
