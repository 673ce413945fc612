package entity

import "time"

// RefreshToken represents the single live session slot for a user. Each user
// has at most one row; a new login or refresh replaces the previous token in
// place rather than appending a history.
type RefreshToken struct {
	ID        int64     // Database-generated identifier.
	UserEmail string    // Normalized email of the owning user, unique.
	Token     string    // The signed refresh token string as issued.
	IssuedAt  time.Time // Issued-at claim of the stored token.
	ExpiresAt time.Time // Expiration claim of the stored token.
}

// Expired reports whether the stored token's expiry has elapsed.
func (t *RefreshToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
