package repository

import (
	"context"
	"errors"

	"authsvc/internal/domain/entity"
)

// ErrRefreshTokenNotFound is returned when no stored refresh token exists for a user.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository defines the operations for the refresh token store.
// Each user owns at most one row; issuing a new token replaces the old one,
// which is what enforces single-use rotation at the persistence level.
type RefreshTokenRepository interface {
	// Upsert stores the token for its user, replacing any existing row for
	// the same email atomically.
	Upsert(ctx context.Context, token *entity.RefreshToken) error

	// FindByEmail retrieves the stored token for a user, or ErrRefreshTokenNotFound.
	FindByEmail(ctx context.Context, email string) (*entity.RefreshToken, error)

	// DeleteByEmail removes the stored token for a user. Deleting a missing
	// row is not an error.
	DeleteByEmail(ctx context.Context, email string) error
}
