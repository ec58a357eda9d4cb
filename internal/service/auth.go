package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/adamnowak/shop-api/internal/hash"
	"github.com/adamnowak/shop-api/internal/logging"
	"github.com/adamnowak/shop-api/internal/models"
	"github.com/adamnowak/shop-api/internal/repo"
	"github.com/adamnowak/shop-api/internal/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	Role         string
}

func (s *AuthService) Register(ctx context.Context, username, password, email, phoneNumber string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	if strings.TrimSpace(email) == "" || strings.TrimSpace(phoneNumber) == "" {
		return nil, fmt.Errorf("%w: email and phoneNumber are required", ErrValidation)
	}

	if _, err := s.Repo.UserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: user with given email already exists", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.Repo.UserByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: user with given username already exists", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PhoneNumber:  phoneNumber,
		PasswordHash: pwHash,
		Role:         models.RoleCustomer,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user already exists", ErrConflict)
		}
		return nil, err
	}

	l.Info("user_registered", "user_id", user.ID)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.Repo.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "invalid credentials")
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}

	accessToken, accessExp, err := tokens.SignAccess(user.ID, user.Username, user.Role, s.JWTSecret, s.AccessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, jti, refreshExp, err := tokens.SignRefresh(user.ID, s.RefreshSecret, s.RefreshTTL)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, refreshToken, jti, user.ID, refreshExp); err != nil {
		return nil, err
	}

	l.Info("login_successful", "user_id", user.ID)
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		Role:         user.Role,
	}, nil
}

// Refresh exchanges a persisted, unexpired refresh token for a new access
// token. The stored row stays valid until logout or natural expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := tokens.ParseRefresh(refreshToken, s.RefreshSecret)
	if err != nil {
		return "", fmt.Errorf("%w: invalid refresh token", ErrUnauthenticated)
	}

	ok, err := s.Repo.RefreshTokenValid(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: refresh token revoked or expired", ErrUnauthenticated)
	}

	userID, err := tokens.SubjectID(claims.Subject)
	if err != nil {
		return "", fmt.Errorf("%w: invalid refresh token", ErrUnauthenticated)
	}
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: unknown user", ErrUnauthenticated)
		}
		return "", err
	}

	accessToken, _, err := tokens.SignAccess(user.ID, user.Username, user.Role, s.JWTSecret, s.AccessTTL)
	if err != nil {
		return "", err
	}
	return accessToken, nil
}

// LogOut deletes every refresh token of the user; future refresh calls with
// any of them fail, already-issued access tokens run out on their own.
func (s *AuthService) LogOut(ctx context.Context, userID uint) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout", "user_id", userID)
	if err := s.Repo.DeleteRefreshTokens(ctx, userID); err != nil {
		l.Error("logout_failed", "error", err)
		return err
	}
	l.Info("logout_successful")
	return nil
}
