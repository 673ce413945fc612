package impl

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"authsvc/config"
	"authsvc/internal/domain/entity"
	"authsvc/internal/domain/repository"
	"authsvc/internal/domain/service"
	"authsvc/internal/infra/auth"
	"authsvc/internal/usecase"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeCredentialRepo is an in-memory CredentialRepository keyed by email.
type fakeCredentialRepo struct {
	mu      sync.Mutex
	byEmail map[string]*entity.Credential
	nextID  int64
}

func newFakeCredentialRepo() *fakeCredentialRepo {
	return &fakeCredentialRepo{byEmail: make(map[string]*entity.Credential)}
}

func (r *fakeCredentialRepo) FindByEmail(_ context.Context, email string) (*entity.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	credential, ok := r.byEmail[entity.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrCredentialNotFound
	}
	clone := *credential

	return &clone, nil
}

func (r *fakeCredentialRepo) FindByID(_ context.Context, id int64) (*entity.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, credential := range r.byEmail {
		if credential.ID == id {
			clone := *credential

			return &clone, nil
		}
	}

	return nil, repository.ErrCredentialNotFound
}

func (r *fakeCredentialRepo) Create(_ context.Context, credential *entity.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := entity.NormalizeEmail(credential.Email)
	if _, exists := r.byEmail[key]; exists {
		return repository.ErrDuplicateEmail
	}

	r.nextID++
	credential.ID = r.nextID
	clone := *credential
	r.byEmail[key] = &clone

	return nil
}

func (r *fakeCredentialRepo) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, credential := range r.byEmail {
		if credential.ID == id {
			delete(r.byEmail, key)

			return nil
		}
	}

	return repository.ErrCredentialNotFound
}

// fakeRefreshTokenRepo is an in-memory RefreshTokenRepository. The map is
// keyed by email, so each user inherently owns a single slot, mirroring the
// unique constraint of the real table.
type fakeRefreshTokenRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{rows: make(map[string]*entity.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Upsert(_ context.Context, token *entity.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *token
	r.rows[token.UserEmail] = &clone

	return nil
}

func (r *fakeRefreshTokenRepo) FindByEmail(_ context.Context, email string) (*entity.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[email]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}
	clone := *row

	return &clone, nil
}

func (r *fakeRefreshTokenRepo) DeleteByEmail(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rows, email)

	return nil
}

func (r *fakeRefreshTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.rows)
}

// fakeRepoFactory hands out the shared in-memory repositories.
type fakeRepoFactory struct {
	credentialRepo   *fakeCredentialRepo
	refreshTokenRepo *fakeRefreshTokenRepo
}

func (f *fakeRepoFactory) NewCredentialRepository() repository.CredentialRepository {
	return f.credentialRepo
}

func (f *fakeRepoFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	return f.refreshTokenRepo
}

// fakeTxManager runs the transactional function directly against the shared
// repositories. Rollback semantics are not simulated; tests assert on the
// error paths instead.
type fakeTxManager struct {
	factory *fakeRepoFactory
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

// registryCall captures a single delivered registry notification.
type registryCall struct {
	record      service.UserRecord
	accessToken string
}

// fakeUserRegistry records notifications for later assertions.
type fakeUserRegistry struct {
	mu    sync.Mutex
	calls []registryCall
}

func (r *fakeUserRegistry) CreateUser(_ context.Context, record service.UserRecord, accessToken string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, registryCall{record: record, accessToken: accessToken})
}

func (r *fakeUserRegistry) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.calls)
}

func (r *fakeUserRegistry) lastCall() registryCall {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls[len(r.calls)-1]
}

// writeTestKeyPair generates an RSA key pair under a temp dir and returns a
// config pointing at the PEM files.
func writeTestKeyPair(t *testing.T, accessTTL, refreshTTL time.Duration) *config.Config {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	require.NoError(t, os.WriteFile(privatePath, privatePEM, 0o600))

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	})
	require.NoError(t, os.WriteFile(publicPath, publicPEM, 0o600))

	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{
		PrivateKeyPath:  privatePath,
		PublicKeyPath:   publicPath,
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
		BcryptCost:      bcrypt.MinCost, // Fast hashing for tests.
	}

	return cfg
}

// testAuthService bundles the service under test with its fakes.
type testAuthService struct {
	service          usecase.AuthUsecase
	credentialRepo   *fakeCredentialRepo
	refreshTokenRepo *fakeRefreshTokenRepo
	registry         *fakeUserRegistry
	tokenService     service.TokenService
}

func newTestAuthService(t *testing.T) *testAuthService {
	t.Helper()

	return newTestAuthServiceWithTTL(t, time.Minute*15, time.Hour*24*7)
}

func newTestAuthServiceWithTTL(t *testing.T, accessTTL, refreshTTL time.Duration) *testAuthService {
	t.Helper()

	cfg := writeTestKeyPair(t, accessTTL, refreshTTL)

	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	credentialRepo := newFakeCredentialRepo()
	refreshTokenRepo := newFakeRefreshTokenRepo()
	registry := &fakeUserRegistry{}
	factory := &fakeRepoFactory{
		credentialRepo:   credentialRepo,
		refreshTokenRepo: refreshTokenRepo,
	}

	authUsecase := NewAuthService(AuthServiceParams{
		TxManager:        &fakeTxManager{factory: factory},
		CredentialRepo:   credentialRepo,
		RefreshTokenRepo: refreshTokenRepo,
		Hasher:           auth.NewBcryptHasher(cfg),
		TokenService:     tokenService,
		UserRegistry:     registry,
		Config:           cfg,
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return &testAuthService{
		service:          authUsecase,
		credentialRepo:   credentialRepo,
		refreshTokenRepo: refreshTokenRepo,
		registry:         registry,
		tokenService:     tokenService,
	}
}

func registerInput(email string) usecase.RegisterInput {
	return usecase.RegisterInput{
		Name:      "Ada",
		Surname:   "Lovelace",
		BirthDate: time.Date(1990, time.December, 10, 0, 0, 0, 0, time.UTC),
		Email:     email,
		Password:  "secret-password-1",
	}
}
