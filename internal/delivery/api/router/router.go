// Package router registers the HTTP routes of the API.
package router

import (
	"foodorder/internal/delivery/api/middleware"
	"foodorder/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	HealthHandler     *handler.HealthHandler
	AuthHandler       *handler.AuthHandler
	OrderHandler      *handler.OrderHandler
	RestaurantHandler *handler.RestaurantHandler
	MenuHandler       *handler.MenuHandler
	AdminHandler      *handler.AdminHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	healthHandler     *handler.HealthHandler
	authHandler       *handler.AuthHandler
	orderHandler      *handler.OrderHandler
	restaurantHandler *handler.RestaurantHandler
	menuHandler       *handler.MenuHandler
	adminHandler      *handler.AdminHandler
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		healthHandler:     params.HealthHandler,
		authHandler:       params.AuthHandler,
		orderHandler:      params.OrderHandler,
		restaurantHandler: params.RestaurantHandler,
		menuHandler:       params.MenuHandler,
		adminHandler:      params.AdminHandler,
		authMiddleware:    params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	authenticate := r.authMiddleware.Authenticate

	e.GET("/health", r.healthHandler.Check)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.Signup)
		authGroup.GET("/verify-email", r.authHandler.VerifyEmail)
		authGroup.POST("/resend-verification", r.authHandler.ResendVerification)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.GET("/me", r.authHandler.Me, authenticate)
	}

	ordersGroup := e.Group("/orders")
	ordersGroup.Use(authenticate)
	{
		ordersGroup.POST("", r.orderHandler.CreateOrder)
		ordersGroup.GET("", r.orderHandler.ListMyOrders)
		ordersGroup.GET("/managed", r.orderHandler.ListManagedOrders)
		ordersGroup.GET("/:id", r.orderHandler.GetOrder)
		ordersGroup.PATCH("/:id/cancel", r.orderHandler.CancelOrder)
		ordersGroup.DELETE("/:id", r.orderHandler.CancelOrder)
	}

	// Listing and reading restaurants is public; signed in callers may see more.
	restaurantsGroup := e.Group("/restaurants")
	{
		restaurantsGroup.GET("", r.restaurantHandler.ListRestaurants, r.authMiddleware.OptionalAuthenticate)
		restaurantsGroup.GET("/:id", r.restaurantHandler.GetRestaurant)
		restaurantsGroup.GET("/:id/qrcode", r.restaurantHandler.MenuQRCode)
		restaurantsGroup.POST("", r.restaurantHandler.CreateRestaurant, authenticate)
		restaurantsGroup.PATCH("/:id", r.restaurantHandler.UpdateRestaurant, authenticate)
		restaurantsGroup.PATCH("/:id/approve", r.restaurantHandler.ApproveRestaurant, authenticate)
		restaurantsGroup.DELETE("/:id", r.restaurantHandler.DisableRestaurant, authenticate)
		restaurantsGroup.GET("/:id/orders", r.orderHandler.ListRestaurantOrders, authenticate)
		restaurantsGroup.PATCH("/:id/orders/:orderId/status", r.orderHandler.UpdateOrderStatus, authenticate)
	}

	menuGroup := e.Group("/menu")
	{
		menuGroup.GET("/:restaurantId", r.menuHandler.ListItems)
		menuGroup.GET("/:restaurantId/:itemId", r.menuHandler.GetItem)
		menuGroup.POST("/:restaurantId", r.menuHandler.CreateItem, authenticate)
		menuGroup.PATCH("/:restaurantId/:itemId", r.menuHandler.UpdateItem, authenticate)
		menuGroup.DELETE("/:restaurantId/:itemId", r.menuHandler.DeleteItem, authenticate)
	}

	// Role checks happen in the admin service.
	adminGroup := e.Group("/admin")
	adminGroup.Use(authenticate)
	{
		adminGroup.GET("/users", r.adminHandler.ListUsers)
		adminGroup.GET("/users/:id", r.adminHandler.GetUser)
		adminGroup.POST("/users/promote", r.adminHandler.PromoteUser)
		adminGroup.POST("/users/:id/role", r.adminHandler.ChangeRole)
		adminGroup.POST("/users/:id/revoke", r.adminHandler.RevokeTokens)
		adminGroup.POST("/users/:id/disable", r.adminHandler.DisableUser)
		adminGroup.GET("/audit", r.adminHandler.ListAudit)
	}
}
