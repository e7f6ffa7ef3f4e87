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
	"gorm.io/gorm/clause"
)

// securityRepository implements the domain's SecurityRepository interface
// using GORM.
type securityRepository struct {
	db *gorm.DB
}

// NewSecurityRepository is the constructor for securityRepository.
func NewSecurityRepository(db *gorm.DB) repository.SecurityRepository {
	return &securityRepository{db: db}
}

// FindByUserID retrieves the security state belonging to the given user.
func (repo *securityRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.AccountSecurity, error) {
	var secM model.AccountSecurityModel
	err := repo.db.WithContext(ctx).First(&secM, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSecurityStateNotFound
		}

		return nil, errors.Wrap(err, "failed to find security state by user id")
	}

	return toSecurityDomain(&secM), nil
}

// FindByUserIDForUpdate retrieves the security state with a SELECT ... FOR
// UPDATE row lock. Concurrent login attempts against the same account queue
// behind the lock, so attempt counting stays exact.
func (repo *securityRepository) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*entity.AccountSecurity, error) {
	var secM model.AccountSecurityModel
	err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&secM, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSecurityStateNotFound
		}

		return nil, errors.Wrap(err, "failed to lock security state by user id")
	}

	return toSecurityDomain(&secM), nil
}

// Create persists a freshly initialized security state.
func (repo *securityRepository) Create(ctx context.Context, sec *entity.AccountSecurity) error {
	secM := fromSecurityDomain(sec)

	if err := repo.db.WithContext(ctx).Create(secM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("security state already exists for user")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("security state references unknown user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create security state")
	}

	sec.CreatedAt = secM.CreatedAt
	sec.UpdatedAt = secM.UpdatedAt

	return nil
}

// Update persists counter and lock transitions for an existing state.
// Select("*") forces zeroed and nil fields through, since resetting counters
// and clearing locks is exactly what this repository is for.
func (repo *securityRepository) Update(ctx context.Context, sec *entity.AccountSecurity) error {
	secM := fromSecurityDomain(sec)

	result := repo.db.WithContext(ctx).
		Model(&model.AccountSecurityModel{}).
		Where("id = ?", secM.ID).
		Select("*").
		Omit("id", "user_id", "created_at").
		Updates(secM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update security state")
	}
	if result.RowsAffected == 0 {
		return repository.ErrSecurityStateNotFound
	}

	return nil
}

// --- mappers ---

func toSecurityDomain(secM *model.AccountSecurityModel) *entity.AccountSecurity {
	return &entity.AccountSecurity{
		ID:                 secM.ID,
		UserID:             secM.UserID,
		FailedAttempts:     secM.FailedAttempts,
		LockUntil:          secM.LockUntil,
		LastLogin:          secM.LastLogin,
		LastFailedLogin:    secM.LastFailedLogin,
		LastLoginIP:        secM.LastLoginIP,
		LastLoginUserAgent: secM.LastLoginUserAgent,
		DeviceType:         secM.DeviceType,
		Browser:            secM.Browser,
		OS:                 secM.OS,
		CreatedAt:          secM.CreatedAt,
		UpdatedAt:          secM.UpdatedAt,
	}
}

func fromSecurityDomain(sec *entity.AccountSecurity) *model.AccountSecurityModel {
	return &model.AccountSecurityModel{
		ID:                 sec.ID,
		UserID:             sec.UserID,
		FailedAttempts:     sec.FailedAttempts,
		LockUntil:          sec.LockUntil,
		LastLogin:          sec.LastLogin,
		LastFailedLogin:    sec.LastFailedLogin,
		LastLoginIP:        sec.LastLoginIP,
		LastLoginUserAgent: sec.LastLoginUserAgent,
		DeviceType:         sec.DeviceType,
		Browser:            sec.Browser,
		OS:                 sec.OS,
		CreatedAt:          sec.CreatedAt,
		UpdatedAt:          sec.UpdatedAt,
	}
}
