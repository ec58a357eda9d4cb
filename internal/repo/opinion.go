package repo

import (
	"context"

	"github.com/adamnowak/shop-api/internal/models"
)

func (r *GormRepo) CreateOpinion(ctx context.Context, opinion *models.Opinion) error {
	return r.DB.WithContext(ctx).Create(opinion).Error
}

func (r *GormRepo) HasOpinion(ctx context.Context, orderID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.Opinion{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRepo) OpinionsByOrder(ctx context.Context, orderID uint) ([]models.Opinion, error) {
	var opinions []models.Opinion
	err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&opinions).Error
	return opinions, err
}
