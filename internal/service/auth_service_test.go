package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billflow/internal/config"
	"billflow/internal/domain"
	"billflow/internal/repository/memory"
	"billflow/internal/service"
)

func newAuth() service.AuthService {
	return service.NewAuthService(memory.NewDocumentStore(), config.JWTConfig{
		Secret:             "test-secret-key-that-is-long-enough",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "billflow-test",
	})
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuth()

	out, err := svc.Register(ctx, service.RegisterInput{Email: "Owner@Shop.in", Password: "password123", Name: " Owner "})
	require.NoError(t, err)
	assert.Equal(t, "owner@shop.in", out.Email)
	assert.Equal(t, "Owner", out.Name)
	assert.Equal(t, domain.UserNamespace(out.AccountID), out.Namespace)
	require.NotNil(t, out.Tokens)

	claims, err := svc.ValidateToken(out.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.AccountID, claims.UserID)
	assert.Equal(t, out.Namespace, claims.Namespace)
	assert.Equal(t, "billflow-test", claims.Issuer)

	_, err = svc.Register(ctx, service.RegisterInput{Email: "owner@shop.in", Password: "password456", Name: "Other"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	login, err := svc.Login(ctx, service.LoginInput{Email: "OWNER@shop.in", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, out.AccountID, login.AccountID)

	_, err = svc.Login(ctx, service.LoginInput{Email: "owner@shop.in", Password: "wrongpassword"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, service.LoginInput{Email: "nobody@shop.in", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuth()
	_, err := svc.Register(context.Background(), service.RegisterInput{Email: "not-an-email", Password: "password123", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Register(context.Background(), service.RegisterInput{Email: "a@b.in", Password: "short", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthService_Tokens(t *testing.T) {
	ctx := context.Background()
	svc := newAuth()
	out, err := svc.Register(ctx, service.RegisterInput{Email: "owner@shop.in", Password: "password123", Name: "Owner"})
	require.NoError(t, err)

	t.Run("refresh_token_is_not_an_access_token", func(t *testing.T) {
		_, err := svc.ValidateToken(out.Tokens.RefreshToken)
		assert.Error(t, err)
	})

	t.Run("access_token_cannot_refresh", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, out.Tokens.AccessToken)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("refresh", func(t *testing.T) {
		pair, err := svc.RefreshToken(ctx, out.Tokens.RefreshToken)
		require.NoError(t, err)
		claims, err := svc.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, out.AccountID, claims.UserID)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("issue_for_existing_account", func(t *testing.T) {
		pair, err := svc.IssueToken(ctx, "Owner@shop.in")
		require.NoError(t, err)
		claims, err := svc.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "owner@shop.in", claims.Email)

		_, err = svc.IssueToken(ctx, "ghost@shop.in")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
