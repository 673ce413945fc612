package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims carried by issued JWTs. The subject is the
// owner's normalized email.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the signing algorithm and key handling from the use cases.
type TokenService interface {
	// GenerateAccessToken creates a short-lived access token for a subject.
	GenerateAccessToken(subject string, roles []string) (string, error)

	// GenerateRefreshToken creates a long-lived refresh token for a subject.
	GenerateRefreshToken(subject string, roles []string) (string, error)

	// Verify reports whether the token's signature and expiry are valid.
	// Callers receive only the boolean; the failure reason is not exposed.
	Verify(tokenString string) bool

	// ParseClaims verifies the token and returns its decoded claims.
	// The signature is always checked before any claim is trusted.
	ParseClaims(tokenString string) (*Claims, error)

	// DecodeClaims returns the claims of a signature-verified token without
	// enforcing expiry. It exists for bookkeeping on freshly issued tokens,
	// whose exp may already have passed under a near-zero TTL; it must never
	// gate access to anything.
	DecodeClaims(tokenString string) (*Claims, error)

	// AccessTokenDuration returns the configured lifetime for access tokens.
	AccessTokenDuration() time.Duration

	// RefreshTokenDuration returns the configured lifetime for refresh tokens.
	RefreshTokenDuration() time.Duration
}
