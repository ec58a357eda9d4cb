package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/adamnowak/shop-api/internal/models"
	"github.com/adamnowak/shop-api/internal/orderflow"
)

type GormRepo struct {
	DB *gorm.DB
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Product{},
		&models.OrderState{},
		&models.Order{},
		&models.OrderItem{},
		&models.Opinion{},
	)
}

var seedCategories = []string{"Electronics", "Clothing", "Home", "Books", "Sports"}

// Seed creates the predefined order states and categories. Idempotent.
func Seed(ctx context.Context, db *gorm.DB) error {
	for _, name := range orderflow.Flow {
		state := models.OrderState{Name: name}
		if err := db.WithContext(ctx).FirstOrCreate(&state).Error; err != nil {
			return err
		}
	}
	for _, name := range seedCategories {
		category := models.Category{Name: name}
		if err := db.WithContext(ctx).FirstOrCreate(&category).Error; err != nil {
			return err
		}
	}
	return nil
}
