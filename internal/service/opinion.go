package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/adamnowak/shop-api/internal/logging"
	"github.com/adamnowak/shop-api/internal/models"
	"github.com/adamnowak/shop-api/internal/orderflow"
	"github.com/adamnowak/shop-api/internal/repo"
)

type OpinionService struct {
	Repo *repo.GormRepo
}

// Create admits feedback only for a terminal order, only from the account
// whose username matches the order's contact username, and at most once.
func (s *OpinionService) Create(ctx context.Context, orderID uint, username string, rating int, content string) (*models.Opinion, error) {
	l := logging.FromContext(ctx).With("svc", "opinion.create", "order_id", orderID)

	order, err := s.Repo.OrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}

	if order.Username != username {
		return nil, fmt.Errorf("%w: order belongs to another customer", ErrForbidden)
	}

	if !orderflow.Terminal(order.OrderStateName) {
		return nil, fmt.Errorf("%w: opinions are allowed only for completed or cancelled orders", ErrValidation)
	}

	taken, err := s.Repo.HasOpinion(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: order already has an opinion", ErrConflict)
	}

	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be an integer between 1 and 5", ErrValidation)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content must not be empty", ErrValidation)
	}

	opinion := &models.Opinion{
		OrderID: orderID,
		Rating:  rating,
		Content: content,
	}
	if err := s.Repo.CreateOpinion(ctx, opinion); err != nil {
		// Lost a race with a concurrent insert: the unique index wins.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: order already has an opinion", ErrConflict)
		}
		return nil, err
	}

	l.Info("opinion_created", "opinion_id", opinion.ID, "rating", rating)
	return opinion, nil
}

func (s *OpinionService) List(ctx context.Context, orderID uint) ([]models.Opinion, error) {
	if _, err := s.Repo.OrderByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	return s.Repo.OpinionsByOrder(ctx, orderID)
}
