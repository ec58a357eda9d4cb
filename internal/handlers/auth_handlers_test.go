package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adamnowak/shop-api/internal/models"
	"github.com/adamnowak/shop-api/internal/mykafka"
	"github.com/adamnowak/shop-api/internal/repo"
	"github.com/adamnowak/shop-api/internal/service"
	"github.com/adamnowak/shop-api/internal/transport"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open in-memory db")
	require.NoError(t, repo.Migrate(db))
	require.NoError(t, repo.Seed(context.Background(), db))

	return &repo.GormRepo{DB: db}
}

func newAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	return &AuthHandler{
		Svc: &service.AuthService{
			Repo:          newTestRepo(t),
			JWTSecret:     []byte("test-access-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
			AccessTTL:     time.Hour,
			RefreshTTL:    7 * 24 * time.Hour,
		},
		Producer: &mykafka.Producer{},
	}
}

func jsonContext(t *testing.T, method, path string, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
}

func registerTestUser(t *testing.T, h *AuthHandler) {
	t.Helper()

	c, rec := jsonContext(t, http.MethodPost, "/register", transport.RegisterRequest{
		Username:    "test_user",
		Password:    "password",
		Email:       "test@example.com",
		PhoneNumber: "123456789",
	})
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestRegisterHandler(t *testing.T) {
	h := newAuthHandler(t)

	c, rec := jsonContext(t, http.MethodPost, "/register", transport.RegisterRequest{
		Username:    "test_user",
		Password:    "password",
		Email:       "test@example.com",
		PhoneNumber: "123456789",
	})
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.Equal(t, "test_user", user.Username)
	require.Equal(t, models.RoleCustomer, user.Role)
	require.NotEmpty(t, user.ID)
	require.NotContains(t, rec.Body.String(), "password_hash")

	// Same payload again conflicts on email.
	c2, _ := jsonContext(t, http.MethodPost, "/register", transport.RegisterRequest{
		Username:    "test_user",
		Password:    "password",
		Email:       "test@example.com",
		PhoneNumber: "123456789",
	})
	requireHTTPError(t, h.Register(c2), http.StatusConflict)
}

func TestLoginHandler(t *testing.T) {
	h := newAuthHandler(t)
	registerTestUser(t, h)

	c, rec := jsonContext(t, http.MethodPost, "/login", transport.LoginRequest{
		Username: "test_user",
		Password: "password",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var pair transport.TokenPairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	authHeader := rec.Header().Get(echo.HeaderAuthorization)
	require.True(t, strings.HasPrefix(authHeader, "Bearer "))
	require.Equal(t, pair.AccessToken, strings.TrimPrefix(authHeader, "Bearer "))

	cBad, _ := jsonContext(t, http.MethodPost, "/login", transport.LoginRequest{
		Username: "test_user",
		Password: "wrong",
	})
	requireHTTPError(t, h.Login(cBad), http.StatusUnauthorized)
}

func TestRefreshHandler(t *testing.T) {
	h := newAuthHandler(t)
	registerTestUser(t, h)

	cLogin, recLogin := jsonContext(t, http.MethodPost, "/login", transport.LoginRequest{
		Username: "test_user",
		Password: "password",
	})
	require.NoError(t, h.Login(cLogin))
	var pair transport.TokenPairResponse
	require.NoError(t, json.Unmarshal(recLogin.Body.Bytes(), &pair))

	c, rec := jsonContext(t, http.MethodPost, "/refresh", transport.RefreshRequest{
		RefreshToken: pair.RefreshToken,
	})
	require.NoError(t, h.Refresh(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["accessToken"])

	cEmpty, _ := jsonContext(t, http.MethodPost, "/refresh", transport.RefreshRequest{})
	requireHTTPError(t, h.Refresh(cEmpty), http.StatusUnauthorized)
}

func TestLogOutHandler(t *testing.T) {
	h := newAuthHandler(t)
	registerTestUser(t, h)

	cLogin, recLogin := jsonContext(t, http.MethodPost, "/login", transport.LoginRequest{
		Username: "test_user",
		Password: "password",
	})
	require.NoError(t, h.Login(cLogin))
	var pair transport.TokenPairResponse
	require.NoError(t, json.Unmarshal(recLogin.Body.Bytes(), &pair))

	c, rec := jsonContext(t, http.MethodPost, "/logout", nil)
	c.Set("user_id", "1")
	require.NoError(t, h.LogOut(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "logged out", resp["message"])

	// The refresh token from before the logout is revoked.
	cRefresh, _ := jsonContext(t, http.MethodPost, "/refresh", transport.RefreshRequest{
		RefreshToken: pair.RefreshToken,
	})
	requireHTTPError(t, h.Refresh(cRefresh), http.StatusUnauthorized)

	cNoID, _ := jsonContext(t, http.MethodPost, "/logout", nil)
	requireHTTPError(t, h.LogOut(cNoID), http.StatusUnauthorized)
}
