package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adamnowak/shop-api/internal/models"
	"github.com/adamnowak/shop-api/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open in-memory db")
	require.NoError(t, repo.Migrate(db))
	require.NoError(t, repo.Seed(context.Background(), db))

	return &repo.GormRepo{DB: db}
}

func createTestProduct(t *testing.T, r *repo.GormRepo, price float64) *models.Product {
	t.Helper()

	product := models.Product{
		Name:         "Keyboard",
		Description:  "Mechanical keyboard",
		PriceUnit:    price,
		WeightUnit:   0.9,
		CategoryName: "Electronics",
	}
	require.NoError(t, r.CreateProduct(context.Background(), &product))
	return &product
}
