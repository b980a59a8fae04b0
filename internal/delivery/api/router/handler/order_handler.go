package handler

import (
	"log/slog"
	"net/http"

	"foodorder/internal/delivery/api/middleware"
	"foodorder/internal/delivery/api/response"
	"foodorder/internal/domain/entity"
	"foodorder/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC usecase.OrderUsecase
	Logger  *slog.Logger
}

// OrderHandler serves the customer and restaurant sides of orders.
type OrderHandler struct {
	orderUC usecase.OrderUsecase
	logger  *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		orderUC: params.OrderUC,
		logger:  params.Logger,
	}
}

type OrderLineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// CreateOrderRequest is checked by the order engine itself, so the cart
// errors keep their own codes.
type CreateOrderRequest struct {
	RestaurantID string             `json:"restaurant_id"`
	Items        []OrderLineRequest `json:"items"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	var req CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	lines := make([]usecase.OrderLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, usecase.OrderLineInput{ItemID: item.ItemID, Quantity: item.Quantity})
	}

	order, err := h.orderUC.CreateOrder(c.Request().Context(), identity, usecase.CreateOrderInput{
		RestaurantID: req.RestaurantID,
		Lines:        lines,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, newOrderResponse(order))
}

// ListMyOrders lists the caller's own orders, newest first.
func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	input, err := listOrdersInput(c)
	if err != nil {
		return response.HandleAppError(c, invalidQuery(err))
	}

	page, err := h.orderUC.ListMyOrders(c.Request().Context(), identity, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, orderPage(page))
}

// ListManagedOrders lists orders of every restaurant the caller manages.
func (h *OrderHandler) ListManagedOrders(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	input, err := listOrdersInput(c)
	if err != nil {
		return response.HandleAppError(c, invalidQuery(err))
	}

	page, err := h.orderUC.ListManagedOrders(c.Request().Context(), identity, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, orderPage(page))
}

func (h *OrderHandler) ListRestaurantOrders(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	input, err := listOrdersInput(c)
	if err != nil {
		return response.HandleAppError(c, invalidQuery(err))
	}

	page, err := h.orderUC.ListRestaurantOrders(c.Request().Context(), identity, c.Param("id"), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, orderPage(page))
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	order, err := h.orderUC.GetOrder(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newOrderResponse(order))
}

// CancelOrder serves both PATCH /orders/:id/cancel and DELETE /orders/:id.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	var req ReasonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.orderUC.CancelOrder(c.Request().Context(), identity, c.Param("id"), req.Reason)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newOrderResponse(order))
}

// UpdateOrderStatus drives the lifecycle on behalf of the restaurant.
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing identity")
	}

	var req UpdateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.orderUC.UpdateOrderStatus(c.Request().Context(), identity, usecase.UpdateOrderStatusInput{
		RestaurantID: c.Param("id"),
		OrderID:      c.Param("orderId"),
		Status:       entity.OrderStatus(req.Status),
		Reason:       req.Reason,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newOrderResponse(order))
}

func orderPage(page *usecase.OrderPage) response.Page {
	return response.Page{Items: mapSlice(page.Orders, newOrderResponse), Total: page.Total}
}
