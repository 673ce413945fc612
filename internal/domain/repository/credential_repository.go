// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"authsvc/internal/domain/entity"
)

// Domain-specific errors for credential persistence.
var (
	// ErrCredentialNotFound is returned when no credential matches the lookup key.
	ErrCredentialNotFound = errors.New("credential not found")
	// ErrDuplicateEmail is returned when an insert violates the unique email constraint.
	ErrDuplicateEmail = errors.New("email already registered")
)

// CredentialRepository defines the standard operations for credential persistence.
// The application layer will depend on this interface, not the concrete implementation.
type CredentialRepository interface {
	// FindByEmail retrieves a single credential by its normalized email address.
	FindByEmail(ctx context.Context, email string) (*entity.Credential, error)

	// FindByID retrieves a single credential by its database identifier.
	FindByID(ctx context.Context, id int64) (*entity.Credential, error)

	// Create persists a new credential. A unique-constraint violation on the
	// email column surfaces as ErrDuplicateEmail.
	Create(ctx context.Context, credential *entity.Credential) error

	// DeleteByID removes a credential by its database identifier.
	DeleteByID(ctx context.Context, id int64) error
}
