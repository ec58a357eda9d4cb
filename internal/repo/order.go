package repo

import (
	"context"
	"time"

	"github.com/adamnowak/shop-api/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.DB.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return r.OrderByID(ctx, order.ID)
}

func (r *GormRepo) OrderByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items.Product").
		Preload("OrderState").
		Preload("Opinions").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items.Product").
		Preload("OrderState").
		Preload("Opinions").
		Order("id ASC").
		Find(&orders).Error
	return orders, err
}

func (r *GormRepo) ListOrdersByUsername(ctx context.Context, username string) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items.Product").
		Preload("OrderState").
		Preload("Opinions").
		Where("username = ?", username).
		Order("approval_date DESC").
		Find(&orders).Error
	return orders, err
}

func (r *GormRepo) ListOrdersByState(ctx context.Context, stateName string) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items.Product").
		Preload("OrderState").
		Preload("Opinions").
		Where("order_state_name = ?", stateName).
		Order("id ASC").
		Find(&orders).Error
	return orders, err
}

// UpdateOrderState persists the new state reference on a single row.
func (r *GormRepo) UpdateOrderState(ctx context.Context, orderID uint, stateName string, approvalDate *time.Time) (*models.Order, error) {
	updates := map[string]any{"order_state_name": stateName}
	if approvalDate != nil {
		updates["approval_date"] = approvalDate
	}
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
	if err != nil {
		return nil, err
	}
	return r.OrderByID(ctx, orderID)
}

func (r *GormRepo) StateExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.OrderState{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRepo) ListStates(ctx context.Context) ([]models.OrderState, error) {
	var states []models.OrderState
	err := r.DB.WithContext(ctx).Find(&states).Error
	return states, err
}
