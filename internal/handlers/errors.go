package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adamnowak/shop-api/internal/orderflow"
	"github.com/adamnowak/shop-api/internal/service"
)

// httpError maps service sentinel errors onto status codes. Unexpected
// store failures become a generic 500 without leaking detail.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, orderflow.ErrUnknownState),
		errors.Is(err, orderflow.ErrInvalidWorkflow),
		errors.Is(err, orderflow.ErrIllegalTransition),
		errors.Is(err, orderflow.ErrTerminalState):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
