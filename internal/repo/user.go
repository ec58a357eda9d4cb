package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/adamnowak/shop-api/internal/models"
	"github.com/adamnowak/shop-api/internal/tokens"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveRefreshToken stores the sha256 of the signed token, never the raw string.
func (r *GormRepo) SaveRefreshToken(ctx context.Context, rawToken, jti string, userID uint, expiresAt time.Time) error {
	row := models.RefreshToken{
		Token:     tokens.Sha256Hex(rawToken),
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt.Unix(),
	}
	return r.DB.WithContext(ctx).Create(&row).Error
}

// RefreshTokenValid reports whether a persisted, unexpired row backs the
// given raw refresh token.
func (r *GormRepo) RefreshTokenValid(ctx context.Context, rawToken string) (bool, error) {
	var row models.RefreshToken
	err := r.DB.WithContext(ctx).
		Where("token = ?", tokens.Sha256Hex(rawToken)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if row.ExpiresAt < time.Now().Unix() {
		return false, nil
	}
	return true, nil
}

// DeleteRefreshTokens removes every refresh token of the user. Logout relies
// on this: already-issued access tokens stay valid until natural expiry.
func (r *GormRepo) DeleteRefreshTokens(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.RefreshToken{}).Error
}
