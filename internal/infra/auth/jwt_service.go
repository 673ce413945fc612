// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rsa"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"authsvc/config"
	"authsvc/internal/domain/service"
)

// Default token lifetimes, used when the config leaves them unset.
const (
	defaultAccessTTL  = time.Minute * 15
	defaultRefreshTTL = time.Hour * 24 * 7
)

// jwtService is a concrete implementation of the TokenService interface using
// RS256 asymmetric signing. The private key signs, the public key verifies,
// so downstream services can validate tokens without the signing key.
type jwtService struct {
	privateKey *rsa.PrivateKey // Signs issued tokens.
	publicKey  *rsa.PublicKey  // Verifies presented tokens.
	accessTTL  time.Duration   // Time-to-live for access tokens.
	refreshTTL time.Duration   // Time-to-live for refresh tokens.
}

// NewJWTService is the constructor for jwtService.
// The RSA key pair is loaded from the configured PEM files exactly once here;
// a missing or malformed key is a startup failure, not a per-request one.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.Auth == nil || cfg.Auth.PrivateKeyPath == "" || cfg.Auth.PublicKeyPath == "" {
		return nil, errors.New("rsa key paths must be provided")
	}

	privatePEM, err := os.ReadFile(cfg.Auth.PrivateKeyPath)
	if err != nil {
		return nil, errors.Wrap(err, "read private key")
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, errors.Wrap(err, "parse private key")
	}

	publicPEM, err := os.ReadFile(cfg.Auth.PublicKeyPath)
	if err != nil {
		return nil, errors.Wrap(err, "read public key")
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, errors.Wrap(err, "parse public key")
	}

	accessTTL := cfg.Auth.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	refreshTTL := cfg.Auth.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}

	return &jwtService{
		privateKey: privateKey,
		publicKey:  publicKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// GenerateAccessToken creates a short-lived access token for a subject.
func (s *jwtService) GenerateAccessToken(subject string, roles []string) (string, error) {
	return s.generateToken(subject, roles, s.accessTTL)
}

// GenerateRefreshToken creates a long-lived refresh token for a subject.
// Refresh tokens carry the same claim shape so a reissued pair can be derived
// from either token's claims.
func (s *jwtService) GenerateRefreshToken(subject string, roles []string) (string, error) {
	return s.generateToken(subject, roles, s.refreshTTL)
}

// Verify reports whether the token's signature and expiry are valid.
func (s *jwtService) Verify(tokenString string) bool {
	_, err := s.ParseClaims(tokenString)

	return err == nil
}

// ParseClaims verifies the token and returns its decoded claims.
// Expiry and signature are both enforced by the parser before the claims are
// returned, so callers never see claims from an untrusted token.
func (s *jwtService) ParseClaims(tokenString string) (*service.Claims, error) {
	claims := new(service.Claims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.publicKey, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parse token")
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	return claims, nil
}

// DecodeClaims returns the claims of a signature-verified token without
// enforcing expiry.
func (s *jwtService) DecodeClaims(tokenString string) (*service.Claims, error) {
	claims := new(service.Claims)
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.publicKey, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, errors.Wrap(err, "decode token")
	}

	return claims, nil
}

// AccessTokenDuration returns the configured lifetime for access tokens.
func (s *jwtService) AccessTokenDuration() time.Duration {
	return s.accessTTL
}

// RefreshTokenDuration returns the configured lifetime for refresh tokens.
func (s *jwtService) RefreshTokenDuration() time.Duration {
	return s.refreshTTL
}

// generateToken is a private helper to create a signed JWT with the standard claim set.
// Every token carries a unique jti. Timestamps are second-truncated and RS256
// signing is deterministic, so without it two tokens for the same subject
// issued within one second would be byte-identical and the stored-token
// rotation check could not tell a redeemed token from its replacement.
func (s *jwtService) generateToken(subject string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &service.Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}

	return signed, nil
}
