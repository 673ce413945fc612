// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"authsvc/config"
	deliverycontext "authsvc/internal/delivery/context"
	"authsvc/internal/domain/entity"
	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/domain/repository"
	"authsvc/internal/domain/service"
	"authsvc/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const birthDateLayout = "2006-01-02"

// authService implements the AuthUsecase interface.
type authService struct {
	txManager        repository.TransactionManager
	credentialRepo   repository.CredentialRepository
	refreshTokenRepo repository.RefreshTokenRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	userRegistry     service.UserRegistry
	logger           *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	CredentialRepo   repository.CredentialRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	UserRegistry     service.UserRegistry
	Config           *config.Config
	Logger           *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:        params.TxManager,
		credentialRepo:   params.CredentialRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		userRegistry:     params.UserRegistry,
		logger:           params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete registration process.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.TokenPairOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	role, err := resolveRole(input.Role)
	if err != nil {
		srv.log(ctx).Warn("Registration with unknown role", slog.String("email", email), slog.String("role", input.Role))

		return nil, err
	}

	// Hash outside the transaction (bcrypt is CPU-bound).
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during registration")
	}

	// Generate the token pair outside the transaction as well.
	pair, err := srv.issueTokenPair(email, role.Claims())
	if err != nil {
		srv.log(ctx).Error("Failed to generate tokens during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate tokens during registration")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		credentialRepo := repoFactory.NewCredentialRepository()
		refreshRepo := repoFactory.NewRefreshTokenRepository()

		// Early duplicate check; the unique constraint remains the authoritative guard.
		_, findErr := credentialRepo.FindByEmail(ctx, email)
		if findErr == nil {
			return errors.Wrap(domainerrors.ErrDuplicateCredential, "email already registered")
		}
		if !errors.Is(findErr, repository.ErrCredentialNotFound) {
			return errors.Wrap(findErr, "failed to check existing credential")
		}

		newCredential := &entity.Credential{
			Name:         input.Name,
			Surname:      input.Surname,
			BirthDate:    input.BirthDate,
			Email:        email,
			PasswordHash: hashedPassword,
			Role:         role,
		}
		if createErr := credentialRepo.Create(ctx, newCredential); createErr != nil {
			if errors.Is(createErr, repository.ErrDuplicateEmail) {
				return errors.Wrap(domainerrors.ErrDuplicateCredential, "email already registered")
			}

			return errors.Wrap(createErr, "failed to create credential")
		}

		return srv.storeRefreshToken(ctx, refreshRepo, email, pair.RefreshToken)
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.String("email", email))

	srv.notifyUserRegistry(ctx, input, email, pair.AccessToken)

	return pair, nil
}

// Login orchestrates the authentication process.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.TokenPairOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Debug("Starting login", slog.String("email", email))

	credential, err := srv.loadCredential(ctx, email)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	// Check password outside transaction (bcrypt is CPU-bound).
	// The mismatch error is identical to the unknown-email one.
	if !srv.hasher.Check(input.Password, credential.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	pair, err := srv.issueTokenPair(email, credential.Role.Claims())
	if err != nil {
		srv.log(ctx).Error("Failed to generate tokens during login", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate tokens during login")
	}

	if err := srv.storeRefreshToken(ctx, srv.refreshTokenRepo, email, pair.RefreshToken); err != nil {
		srv.log(ctx).Error("Failed to store refresh token during login", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to store refresh token during login")
	}

	srv.log(ctx).Debug("Login completed", slog.String("email", email))

	return pair, nil
}

// Refresh redeems a refresh token for a new pair. The presented token must
// still be the one on record for its subject; a token rotated out by a later
// login or refresh is rejected even though its signature verifies.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.TokenPairOutput, error) {
	srv.log(ctx).Debug("Attempting token refresh")

	claims, err := srv.tokenService.ParseClaims(refreshToken)
	if err != nil {
		srv.log(ctx).Warn("Refresh with invalid token", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInvalidToken, "refresh token rejected")
	}
	email := claims.Subject

	pair, err := srv.issueTokenPair(email, claims.Roles)
	if err != nil {
		srv.log(ctx).Error("Failed to generate tokens during refresh", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate tokens during refresh")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.NewRefreshTokenRepository()

		stored, findErr := refreshRepo.FindByEmail(ctx, email)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrRefreshTokenNotFound) {
				return errors.Wrap(domainerrors.ErrInvalidToken, "no stored refresh token for subject")
			}

			return errors.Wrap(findErr, "failed to load stored refresh token")
		}

		if stored.Token != refreshToken {
			return errors.Wrap(domainerrors.ErrInvalidToken, "refresh token already rotated")
		}

		if deleteErr := refreshRepo.DeleteByEmail(ctx, email); deleteErr != nil {
			return errors.Wrap(deleteErr, "failed to delete redeemed refresh token")
		}

		return srv.storeRefreshToken(ctx, refreshRepo, email, pair.RefreshToken)
	})
	if err != nil {
		srv.log(ctx).Warn("Refresh failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Refresh completed", slog.String("email", email))

	return pair, nil
}

// Validate reports whether a token is currently valid. The failure reason is
// logged here; callers only see the boolean.
func (srv *authService) Validate(ctx context.Context, token string) bool {
	if _, err := srv.tokenService.ParseClaims(token); err != nil {
		srv.log(ctx).Debug("Token validation failed", slog.Any("error", err))

		return false
	}

	return true
}

// DeleteCredential removes a credential and its stored refresh token.
func (srv *authService) DeleteCredential(ctx context.Context, id int64) error {
	srv.log(ctx).Info("Deleting credential", slog.Int64("credentialID", id))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		credentialRepo := repoFactory.NewCredentialRepository()
		refreshRepo := repoFactory.NewRefreshTokenRepository()

		credential, findErr := credentialRepo.FindByID(ctx, id)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrCredentialNotFound) {
				return errors.Wrap(domainerrors.ErrCredentialNotFound, "credential not found")
			}

			return errors.Wrap(findErr, "failed to find credential")
		}

		if deleteErr := credentialRepo.DeleteByID(ctx, id); deleteErr != nil {
			return errors.Wrap(deleteErr, "failed to delete credential")
		}

		// The session row follows its owning credential.
		if deleteErr := refreshRepo.DeleteByEmail(ctx, credential.Email); deleteErr != nil {
			return errors.Wrap(deleteErr, "failed to delete refresh token for credential")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to delete credential", slog.Int64("credentialID", id), slog.Any("error", err))

		return err
	}

	srv.log(ctx).Info("Credential deleted", slog.Int64("credentialID", id))

	return nil
}

// loadCredential loads a credential in a short transaction to avoid stale
// reads on replicas. A missing credential maps to the shared invalid
// credentials error.
func (srv *authService) loadCredential(ctx context.Context, email string) (*entity.Credential, error) {
	var credential *entity.Credential

	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		credentialRepo := repoFactory.NewCredentialRepository()

		var findErr error
		credential, findErr = credentialRepo.FindByEmail(ctx, email)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrCredentialNotFound) {
				return errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
			}

			return errors.Wrap(findErr, "failed to find credential")
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return credential, nil
}

// issueTokenPair generates a fresh access and refresh token for a subject.
func (srv *authService) issueTokenPair(subject string, roles []string) (*usecase.TokenPairOutput, error) {
	accessToken, err := srv.tokenService.GenerateAccessToken(subject, roles)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	refreshToken, err := srv.tokenService.GenerateRefreshToken(subject, roles)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate refresh token")
	}

	return &usecase.TokenPairOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken records the issued refresh token as the single live
// session for its subject. The stored issued-at and expiry come from the
// token's own claims so the row always mirrors what was signed. The decode
// skips expiry validation: with a very short TTL the token can expire between
// signing and persisting, and that must not fail the issuing operation.
func (srv *authService) storeRefreshToken(ctx context.Context, refreshRepo repository.RefreshTokenRepository, email, refreshToken string) error {
	claims, err := srv.tokenService.DecodeClaims(refreshToken)
	if err != nil {
		return errors.Wrap(err, "failed to decode issued refresh token")
	}

	row := &entity.RefreshToken{
		UserEmail: email,
		Token:     refreshToken,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := refreshRepo.Upsert(ctx, row); err != nil {
		return errors.Wrap(err, "failed to store refresh token")
	}

	return nil
}

// notifyUserRegistry announces the new account to the downstream user service.
// Delivery is best-effort and fully decoupled from the request lifecycle; the
// registration outcome is already committed when this runs.
func (srv *authService) notifyUserRegistry(ctx context.Context, input usecase.RegisterInput, email, accessToken string) {
	record := service.UserRecord{
		Name:      input.Name,
		Surname:   input.Surname,
		BirthDate: input.BirthDate.Format(birthDateLayout),
		Email:     email,
	}

	notifyCtx := context.WithoutCancel(ctx)
	go srv.userRegistry.CreateUser(notifyCtx, record, accessToken)
}

// resolveRole maps the optional requested role onto a known role.
func resolveRole(requested string) (entity.Role, error) {
	switch requested {
	case "", entity.RoleUser.String():
		return entity.RoleUser, nil
	case entity.RoleAdmin.String():
		return entity.RoleAdmin, nil
	default:
		return "", errors.Wrapf(domainerrors.ErrInvalidRole, "unknown role %q", requested)
	}
}
