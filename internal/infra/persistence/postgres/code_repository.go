package postgres

import (
	"context"

	"blogsphere/internal/domain/entity"
	domainerrors "blogsphere/internal/domain/errors"
	"blogsphere/internal/domain/repository"
	"blogsphere/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// codeRepository implements repository.CodeRepository using GORM.
type codeRepository struct {
	db *gorm.DB
}

// NewCodeRepository is the constructor for codeRepository.
func NewCodeRepository(db *gorm.DB) repository.CodeRepository {
	return &codeRepository{db: db}
}

// Create stores a new verification code.
func (repo *codeRepository) Create(ctx context.Context, code *entity.OneTimeCode) error {
	codeM := &model.VerificationCodeModel{
		ID:        code.ID,
		Email:     code.Email,
		CodeHash:  code.CodeHash,
		CreatedAt: code.CreatedAt,
	}

	if err := repo.db.WithContext(ctx).Create(codeM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create verification code")
	}

	return nil
}

// FindLatestByEmail selects the newest code with FOR UPDATE so concurrent verifications
// of the same code serialize on the row.
func (repo *codeRepository) FindLatestByEmail(ctx context.Context, email string) (*entity.OneTimeCode, error) {
	var codeM model.VerificationCodeModel
	err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("email = ?", email).
		Order("created_at DESC").
		Order("id DESC").
		First(&codeM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCodeNotFound
		}

		return nil, errors.Wrap(err, "failed to find verification code")
	}

	return &entity.OneTimeCode{
		ID:        codeM.ID,
		Email:     codeM.Email,
		CodeHash:  codeM.CodeHash,
		CreatedAt: codeM.CreatedAt,
	}, nil
}

// Delete removes one code and fails when no row was removed.
func (repo *codeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.VerificationCodeModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete verification code")
	}
	if result.RowsAffected != 1 {
		return repository.ErrCodeNotFound
	}

	return nil
}

// DeleteByEmail removes every outstanding code for the email.
func (repo *codeRepository) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	result := repo.db.WithContext(ctx).Where("email = ?", email).Delete(&model.VerificationCodeModel{})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete verification codes")
	}

	return result.RowsAffected, nil
}
