package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-user-warehouse/internal/domain/entity"
	"go-user-warehouse/internal/infrastructure/memory"
	"go-user-warehouse/pkg/helpers"
)

func newAuthService(t *testing.T) (*AuthService, string) {
	t.Helper()
	store := memory.NewUserRepository()
	id, err := store.Create(context.Background(), &entity.User{
		Name:     "Alice",
		Email:    "alice@x.com",
		Password: "plain-secret",
		DOB:      time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 2*time.Hour)
	return NewAuthService(store, jwt, nil, testLogger()), id
}

func TestLoginSuccess(t *testing.T) {
	svc, id := newAuthService(t)

	res, pair, err := svc.Login(context.Background(), "alice@x.com", "plain-secret")
	require.NoError(t, err)
	assert.Equal(t, id, res.UserID)
	assert.Equal(t, "alice@x.com", res.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.AccessTokenExpiry.After(time.Now()))

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.NotEmpty(t, claims.SessionID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, err := svc.Login(context.Background(), "alice@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, err := svc.Login(context.Background(), "nobody@x.com", "plain-secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, "alice@x.com", "plain-secret")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
