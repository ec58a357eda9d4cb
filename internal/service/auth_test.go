package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adamnowak/shop-api/internal/models"
	"github.com/adamnowak/shop-api/internal/tokens"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		Repo:          newTestRepo(t),
		JWTSecret:     []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func TestRegister(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "password", "alice@example.com", "123456789")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, models.RoleCustomer, user.Role)
	require.NotEqual(t, "password", user.PasswordHash)
}

func TestRegisterDuplicates(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password", "alice@example.com", "123456789")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "bob", "password", "alice@example.com", "123456789")
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.Register(ctx, "alice", "password", "other@example.com", "123456789")
	require.ErrorIs(t, err, ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "password", "alice@example.com", "123456789")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, "alice", "", "alice@example.com", "123456789")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, "alice", "password", "", "123456789")
	require.ErrorIs(t, err, ErrValidation)
}

func TestLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "password", "alice@example.com", "123456789")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "alice", "password")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)
	require.Equal(t, models.RoleCustomer, res.Role)

	claims, err := tokens.ParseAccess(res.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)

	id, err := tokens.SubjectID(claims.Subject)
	require.NoError(t, err)
	require.Equal(t, user.ID, id)
}

func TestLoginBadCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password", "alice@example.com", "123456789")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Login(ctx, "nobody", "password")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRefresh(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password", "alice@example.com", "123456789")
	require.NoError(t, err)
	res, err := svc.Login(ctx, "alice", "password")
	require.NoError(t, err)

	accessToken, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)

	claims, err := tokens.ParseAccess(accessToken, svc.JWTSecret)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, models.RoleCustomer, claims.Role)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password", "alice@example.com", "123456789")
	require.NoError(t, err)
	res, err := svc.Login(ctx, "alice", "password")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, res.AccessToken)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password", "alice@example.com", "123456789")
	require.NoError(t, err)

	// Well-formed token that was never persisted.
	token, _, _, err := tokens.SignRefresh(999, svc.RefreshSecret, time.Hour)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLogOutRevokesRefresh(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "password", "alice@example.com", "123456789")
	require.NoError(t, err)
	res, err := svc.Login(ctx, "alice", "password")
	require.NoError(t, err)

	require.NoError(t, svc.LogOut(ctx, user.ID))

	_, err = svc.Refresh(ctx, res.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthenticated)
}
