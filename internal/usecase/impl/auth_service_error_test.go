package impl

import (
	"context"
	"testing"
	"time"

	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	ts := newTestAuthService(t)
	ctx := context.Background()

	_, err := ts.service.Register(ctx, registerInput("ada@example.com"))
	require.NoError(t, err)

	pair, err := ts.service.Register(ctx, registerInput("ada@example.com"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateCredential)
	assert.Nil(t, pair)
}

func TestAuthService_Register_DuplicateEmailCaseInsensitive(t *testing.T) {
	ts := newTestAuthService(t)
	ctx := context.Background()

	_, err := ts.service.Register(ctx, registerInput("ada@example.com"))
	require.NoError(t, err)

	// Same address, different case: still a duplicate.
	pair, err := ts.service.Register(ctx, registerInput("ADA@EXAMPLE.COM"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateCredential)
	assert.Nil(t, pair)
}

func TestAuthService_Login_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	ts := newTestAuthService(t)
	ctx := context.Background()

	_, err := ts.service.Register(ctx, registerInput("ada@example.com"))
	require.NoError(t, err)

	_, wrongPasswordErr := ts.service.Login(ctx, usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "wrong-password",
	})
	require.Error(t, wrongPasswordErr)

	_, unknownEmailErr := ts.service.Login(ctx, usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "secret-password-1",
	})
	require.Error(t, unknownEmailErr)

	// Both failures resolve to the same error value with the same message,
	// so responses never reveal whether the account exists.
	assert.ErrorIs(t, wrongPasswordErr, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmailErr, domainerrors.ErrInvalidCredentials)
	assert.Equal(t,
		errors.Cause(wrongPasswordErr).Error(),
		errors.Cause(unknownEmailErr).Error(),
	)
	assert.Equal(t, "incorrect email or password", errors.Cause(wrongPasswordErr).Error())
}

func TestAuthService_Refresh_SecondRedeemFails(t *testing.T) {
	ts := newTestAuthService(t)
	ctx := context.Background()

	original, err := ts.service.Register(ctx, registerInput("ada@example.com"))
	require.NoError(t, err)

	_, err = ts.service.Refresh(ctx, original.RefreshToken)
	require.NoError(t, err)

	// The original token's signature still verifies, but the store has
	// rotated it out, so a second redeem is rejected.
	assert.True(t, ts.service.Validate(ctx, original.RefreshToken))

	pair, err := ts.service.Refresh(ctx, original.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	assert.Nil(t, pair)
}

func TestAuthService_Refresh_TamperedToken(t *testing.T) {
	ts := newTestAuthService(t)
	ctx := context.Background()

	original, err := ts.service.Register(ctx, registerInput("ada@example.com"))
	require.NoError(t, err)

	tampered := original.RefreshToken[:len(original.RefreshToken)-2] + "xx"
	pair, err := ts.service.Refresh(ctx, tampered)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	assert.Nil(t, pair)
}

func TestAuthService_Refresh_ExpiredToken(t *testing.T) {
	ts := newTestAuthServiceWithTTL(t, time.Minute, time.Nanosecond)
	ctx := context.Background()

	original, err := ts.service.Register(ctx, registerInput("ada@example.com"))
	require.NoError(t, err)

	time.Sleep(time.Millisecond * 10)

	pair, err := ts.service.Refresh(ctx, original.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	assert.Nil(t, pair)
}

func TestAuthService_Refresh_UnknownSubject(t *testing.T) {
	ts := newTestAuthService(t)
	ctx := context.Background()

	original, err := ts.service.Register(ctx, registerInput("ada@example.com"))
	require.NoError(t, err)

	credential, err := ts.credentialRepo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NoError(t, ts.service.DeleteCredential(ctx, credential.ID))

	// The stored row is gone, so the still-valid token cannot be redeemed.
	pair, err := ts.service.Refresh(ctx, original.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	assert.Nil(t, pair)
}

func TestAuthService_DeleteCredential_NotFound(t *testing.T) {
	ts := newTestAuthService(t)
	ctx := context.Background()

	err := ts.service.DeleteCredential(ctx, 12345)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrCredentialNotFound)
}

func TestAuthService_Register_DoesNotNotifyRegistryOnFailure(t *testing.T) {
	ts := newTestAuthService(t)
	ctx := context.Background()

	_, err := ts.service.Register(ctx, registerInput("ada@example.com"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return ts.registry.callCount() == 1
	}, time.Second, time.Millisecond*10)

	_, err = ts.service.Register(ctx, registerInput("ada@example.com"))
	require.Error(t, err)

	// A failed registration never reaches the registry.
	time.Sleep(time.Millisecond * 50)
	assert.Equal(t, 1, ts.registry.callCount())
}
