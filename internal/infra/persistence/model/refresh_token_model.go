package model

import "time"

// RefreshTokenModel mirrors the 'refresh_tokens' table. The unique constraint
// on user_email caps each user at a single live session row.
type RefreshTokenModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	UserEmail    string    `gorm:"type:varchar(255);unique;not null"`
	RefreshToken string    `gorm:"type:text;not null"`
	IssuedAt     time.Time `gorm:"not null"`
	ExpiresAt    time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
