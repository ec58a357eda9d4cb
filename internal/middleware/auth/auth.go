package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/adamnowak/shop-api/internal/models"
	"github.com/adamnowak/shop-api/internal/tokens"
)

// Guard validates bearer access tokens and enforces role requirements.
type Guard struct {
	JWTSecret []byte
}

func NewGuard(secret []byte) *Guard {
	return &Guard{JWTSecret: secret}
}

// RequireAuth expects "Authorization: Bearer <access token>" and puts the
// decoded identity into the echo context for downstream handlers.
func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || scheme != "Bearer" || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token format")
		}

		claims, err := tokens.ParseAccess(token, g.JWTSecret)
		if err != nil || claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set("user_id", claims.Subject)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		return next(c)
	}
}

// RequireRole gates a route on the given role. Admin satisfies every role
// check. A missing identity is forbidden, never a panic.
func (g *Guard) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			current, ok := c.Get("role").(string)
			if !ok || current == "" {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			if current != role && current != models.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}
