package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adamnowak/shop-api/internal/logging"
	"github.com/adamnowak/shop-api/internal/mykafka"
	"github.com/adamnowak/shop-api/internal/service"
	"github.com/adamnowak/shop-api/internal/transport"
)

type OrderHandler struct {
	Svc      *service.OrderService
	Opinions *service.OpinionService
	Producer *mykafka.Producer
}

func (h *OrderHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicOrderEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka_publish_failed", "error", err)
	}
}

func orderID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid order ID")
	}
	return uint(id), nil
}

// GetOrders returns every order with items, products, state and opinions.
func (h *OrderHandler) GetOrders(c echo.Context) error {
	orders, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetMyOrders returns the caller's orders, newest approval date first.
func (h *OrderHandler) GetMyOrders(c echo.Context) error {
	username, ok := c.Get("username").(string)
	if !ok || username == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
	}

	orders, err := h.Svc.ListByUsername(c.Request().Context(), username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_create")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Create(ctx, req)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, fmt.Sprint(order.ID), map[string]any{
		"type":    "order_placed",
		"orderID": order.ID,
		"items":   len(order.Items),
	})

	return c.JSON(http.StatusCreated, order)
}

// PatchOrder triggers a state machine transition on {orderState: {name}}.
func (h *OrderHandler) PatchOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := orderID(c)
	if err != nil {
		return err
	}

	var req transport.PatchOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.OrderState == nil || req.OrderState.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "valid orderState.name is required")
	}

	order, err := h.Svc.Transition(ctx, id, req.OrderState.Name)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, fmt.Sprint(order.ID), map[string]any{
		"type":    "order_state_changed",
		"orderID": order.ID,
		"state":   order.OrderStateName,
	})

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrdersByState(c echo.Context) error {
	orders, err := h.Svc.ListByState(c.Request().Context(), c.Param("name"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetStates lists the predefined order states.
func (h *OrderHandler) GetStates(c echo.Context) error {
	states, err := h.Svc.States(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, states)
}

func (h *OrderHandler) CreateOpinion(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := orderID(c)
	if err != nil {
		return err
	}

	username, ok := c.Get("username").(string)
	if !ok || username == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
	}

	var req transport.CreateOpinionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	opinion, err := h.Opinions.Create(ctx, id, username, req.Rating, req.Content)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, opinion)
}

func (h *OrderHandler) GetOpinions(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}

	opinions, err := h.Opinions.List(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, opinions)
}
