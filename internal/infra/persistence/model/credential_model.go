// Package model contains the GORM models mirroring the database schema.
package model

import "time"

// CredentialModel mirrors the 'credentials' table. Emails are stored
// lower-cased; the unique constraint is the authoritative duplicate guard.
type CredentialModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"type:varchar(50);not null"`
	Surname      string    `gorm:"type:varchar(50);not null"`
	BirthDate    time.Time `gorm:"type:date;not null"`
	Email        string    `gorm:"type:varchar(255);unique;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (CredentialModel) TableName() string {
	return "credentials"
}
