package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adamnowak/shop-api/internal/handlers"
	"github.com/adamnowak/shop-api/internal/middleware/auth"
	"github.com/adamnowak/shop-api/internal/models"
)

type Deps struct {
	AuthHandler    *handlers.AuthHandler
	OrderHandler   *handlers.OrderHandler
	ProductHandler *handlers.ProductHandler
	SearchHandler  *handlers.SearchHandler
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	guard := auth.NewGuard(d.JWTSecret)

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/refresh", d.AuthHandler.Refresh)
	e.POST("/logout", d.AuthHandler.LogOut, guard.RequireAuth)

	e.GET("/products", d.ProductHandler.GetProducts)
	e.GET("/products/search", d.SearchHandler.Search)
	e.GET("/products/:id", d.ProductHandler.GetProduct)
	e.GET("/categories", d.ProductHandler.GetCategories)
	e.GET("/status", d.OrderHandler.GetStates)

	e.GET("/orders/status/:name", d.OrderHandler.GetOrdersByState)
	e.GET("/orders/:id/opinions", d.OrderHandler.GetOpinions)
	e.POST("/orders/:id/opinions", d.OrderHandler.CreateOpinion, guard.RequireAuth)

	customer := e.Group("", guard.RequireAuth, guard.RequireRole(models.RoleCustomer))
	customer.GET("/orders/me", d.OrderHandler.GetMyOrders)
	customer.POST("/orders", d.OrderHandler.CreateOrder)

	admin := e.Group("", guard.RequireAuth, guard.RequireRole(models.RoleAdmin))
	admin.GET("/orders", d.OrderHandler.GetOrders)
	admin.PATCH("/orders/:id", d.OrderHandler.PatchOrder)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.POST("/products/:id/seo-description", d.ProductHandler.GenerateSeoDescription)
	admin.POST("/init", d.ProductHandler.Init)
}
