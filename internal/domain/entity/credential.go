// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"
)

// Credential is the identity record for a single user. The normalized email
// is the unique login identifier; the password is stored only as a salted
// one-way hash.
type Credential struct {
	ID           int64     // Database-generated identifier.
	Name         string    // The user's given name.
	Surname      string    // The user's family name.
	BirthDate    time.Time // Date of birth, date precision only.
	Email        string    // Normalized (lower-cased) email, unique across all records.
	PasswordHash string    // bcrypt hash of the raw password.
	Role         Role      // The single role granted to this user.
	CreatedAt    time.Time // Timestamp of when this credential was created.
	UpdatedAt    time.Time // Timestamp of the last modification.
}

// NormalizeEmail canonicalizes an email address for storage and comparison.
// Emails are compared case-insensitively throughout the system.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
