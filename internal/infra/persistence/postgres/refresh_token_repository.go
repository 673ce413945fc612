package postgres

import (
	"context"

	"authsvc/internal/domain/entity"
	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/domain/repository"
	"authsvc/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// refreshTokenRepository implements the domain.RefreshTokenRepository interface.
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository is the constructor for refreshTokenRepository.
func NewRefreshTokenRepository(db *gorm.DB) repository.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// Upsert stores the token for its user, replacing any existing row for the
// same email. The ON CONFLICT clause makes the replace atomic under
// concurrent refreshes; the row count per user never exceeds one.
func (repo *refreshTokenRepository) Upsert(ctx context.Context, token *entity.RefreshToken) error {
	data := fromRefreshTokenDomain(token)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_email"}},
			DoUpdates: clause.AssignmentColumns([]string{"refresh_token", "issued_at", "expires_at"}),
		}).
		Create(data).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert refresh token")
	}

	token.ID = data.ID

	return nil
}

// FindByEmail retrieves the stored token for a user.
func (repo *refreshTokenRepository) FindByEmail(ctx context.Context, email string) (*entity.RefreshToken, error) {
	var data model.RefreshTokenModel

	err := repo.db.WithContext(ctx).
		Where("user_email = ?", email).
		First(&data).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRefreshTokenNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toRefreshTokenDomain(&data), nil
}

// DeleteByEmail removes the stored token for a user. Deleting a missing row
// is not an error; the cascade path relies on that.
func (repo *refreshTokenRepository) DeleteByEmail(ctx context.Context, email string) error {
	if err := repo.db.WithContext(ctx).
		Where("user_email = ?", email).
		Delete(&model.RefreshTokenModel{}).Error; err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// --- Mapper Functions ---

// toRefreshTokenDomain converts a GORM RefreshTokenModel to a domain RefreshToken entity.
func toRefreshTokenDomain(data *model.RefreshTokenModel) *entity.RefreshToken {
	if data == nil {
		return nil
	}

	return &entity.RefreshToken{
		ID:        data.ID,
		UserEmail: data.UserEmail,
		Token:     data.RefreshToken,
		IssuedAt:  data.IssuedAt,
		ExpiresAt: data.ExpiresAt,
	}
}

// fromRefreshTokenDomain converts a domain RefreshToken entity to a GORM RefreshTokenModel.
func fromRefreshTokenDomain(data *entity.RefreshToken) *model.RefreshTokenModel {
	if data == nil {
		return nil
	}

	return &model.RefreshTokenModel{
		ID:           data.ID,
		UserEmail:    data.UserEmail,
		RefreshToken: data.Token,
		IssuedAt:     data.IssuedAt,
		ExpiresAt:    data.ExpiresAt,
	}
}
