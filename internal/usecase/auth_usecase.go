// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new credential.
type RegisterInput struct {
	Name      string
	Surname   string
	BirthDate time.Time
	Email     string
	Password  string
	Role      string // Optional; empty resolves to the default user role.
}

// LoginInput defines the data required to authenticate.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// TokenPairOutput returns a freshly issued access and refresh token pair.
type TokenPairOutput struct {
	AccessToken  string
	RefreshToken string
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Register creates a new credential and issues its first token pair.
	Register(ctx context.Context, input RegisterInput) (*TokenPairOutput, error)

	// Login verifies a password and issues a fresh token pair.
	Login(ctx context.Context, input LoginInput) (*TokenPairOutput, error)

	// Refresh redeems a refresh token for a new pair, rotating the stored token.
	Refresh(ctx context.Context, refreshToken string) (*TokenPairOutput, error)

	// Validate reports whether a token is currently valid. It never errors.
	Validate(ctx context.Context, token string) bool

	// DeleteCredential removes a credential and its stored refresh token.
	DeleteCredential(ctx context.Context, id int64) error
}
