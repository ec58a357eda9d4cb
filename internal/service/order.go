package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/adamnowak/shop-api/internal/logging"
	"github.com/adamnowak/shop-api/internal/models"
	"github.com/adamnowak/shop-api/internal/orderflow"
	"github.com/adamnowak/shop-api/internal/repo"
	"github.com/adamnowak/shop-api/internal/transport"
)

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^[0-9]+$`)
)

type OrderService struct {
	Repo *repo.GormRepo
}

// Create validates the order envelope and every line item before anything is
// persisted; the write is all-or-nothing. Each item is rebuilt from the
// catalog row and its unit price is stamped from the current catalog price.
func (s *OrderService) Create(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create")

	if strings.TrimSpace(req.Username) == "" {
		return nil, fmt.Errorf("%w: username must not be empty", ErrValidation)
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("%w: email must not be empty", ErrValidation)
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, fmt.Errorf("%w: email must be a valid address", ErrValidation)
	}
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return nil, fmt.Errorf("%w: phoneNumber must not be empty", ErrValidation)
	}
	if !phonePattern.MatchString(req.PhoneNumber) {
		return nil, fmt.Errorf("%w: phoneNumber may contain digits only", ErrValidation)
	}
	if len(req.OrderItems) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(req.OrderItems))
	for _, it := range req.OrderItems {
		if it.Product == nil || it.Product.ID == 0 {
			return nil, fmt.Errorf("%w: every order item must reference a product id", ErrValidation)
		}
		product, err := s.Repo.ProductByID(ctx, it.Product.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: product %d does not exist", ErrValidation, it.Product.ID)
			}
			return nil, err
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for product %d must be > 0", ErrValidation, it.Product.ID)
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  uint(it.Quantity),
			UnitPrice: product.PriceUnit,
			Discount:  it.Discount,
		})
	}

	if req.OrderState == nil || req.OrderState.Name == "" {
		return nil, fmt.Errorf("%w: order must have an orderState", ErrValidation)
	}
	exists, err := s.Repo.StateExists(ctx, req.OrderState.Name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: order state %s does not exist", ErrValidation, req.OrderState.Name)
	}

	order := &models.Order{
		Username:       req.Username,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		OrderStateName: req.OrderState.Name,
		Items:          items,
	}

	created, err := s.Repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	l.Info("order_created", "order_id", created.ID, "items", len(created.Items))
	return created, nil
}

// Transition applies the state machine rules: cancelled orders are terminal,
// the target must be a seeded state, and the flow index never decreases.
func (s *OrderService) Transition(ctx context.Context, orderID uint, targetState string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.transition", "order_id", orderID, "target", targetState)

	order, err := s.Repo.OrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}

	if order.OrderStateName == orderflow.StateCancelled {
		return nil, orderflow.ErrTerminalState
	}

	exists, err := s.Repo.StateExists(ctx, targetState)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", orderflow.ErrUnknownState, targetState)
	}

	if err := orderflow.Validate(order.OrderStateName, targetState); err != nil {
		l.Warn("transition_rejected", "current", order.OrderStateName, "error", err)
		return nil, err
	}

	var approval *time.Time
	if targetState == orderflow.StateConfirmed && order.ApprovalDate == nil {
		now := time.Now()
		approval = &now
	}

	updated, err := s.Repo.UpdateOrderState(ctx, orderID, targetState, approval)
	if err != nil {
		return nil, err
	}
	l.Info("order_transitioned", "from", order.OrderStateName, "to", targetState)
	return updated, nil
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx)
}

func (s *OrderService) ListByUsername(ctx context.Context, username string) ([]models.Order, error) {
	return s.Repo.ListOrdersByUsername(ctx, username)
}

func (s *OrderService) ListByState(ctx context.Context, stateName string) ([]models.Order, error) {
	if !orderflow.Known(stateName) {
		return nil, fmt.Errorf("%w: %s", orderflow.ErrUnknownState, stateName)
	}
	return s.Repo.ListOrdersByState(ctx, stateName)
}

func (s *OrderService) States(ctx context.Context) ([]models.OrderState, error) {
	return s.Repo.ListStates(ctx)
}
