package usecase

import (
	"context"

	"foodorder/internal/domain/entity"
)

// OrderLineInput is one cart line. Ids are raw strings so malformed ids
// surface as validation errors rather than binding failures.
type OrderLineInput struct {
	ItemID   string
	Quantity int
}

// CreateOrderInput defines the data required to place an order.
type CreateOrderInput struct {
	RestaurantID string
	Lines        []OrderLineInput
}

// UpdateOrderStatusInput moves an order of a restaurant to a new status.
type UpdateOrderStatusInput struct {
	RestaurantID string
	OrderID      string
	Status       entity.OrderStatus
	Reason       string
}

// ListOrdersInput pages an order listing.
type ListOrdersInput struct {
	Status *entity.OrderStatus
	Offset int
	Limit  int
}

// OrderPage is one page of orders and the total matching count.
type OrderPage struct {
	Orders []*entity.Order
	Total  int64
}

// OrderUsecase defines order placement, queries and the status lifecycle.
type OrderUsecase interface {
	CreateOrder(ctx context.Context, identity *entity.Identity, input CreateOrderInput) (*entity.Order, error)
	GetOrder(ctx context.Context, identity *entity.Identity, orderID string) (*entity.Order, error)
	ListMyOrders(ctx context.Context, identity *entity.Identity, input ListOrdersInput) (*OrderPage, error)
	ListRestaurantOrders(ctx context.Context, identity *entity.Identity, restaurantID string, input ListOrdersInput) (*OrderPage, error)
	ListManagedOrders(ctx context.Context, identity *entity.Identity, input ListOrdersInput) (*OrderPage, error)

	// CancelOrder is the customer path: owner only, and only while cancellable.
	CancelOrder(ctx context.Context, identity *entity.Identity, orderID, reason string) (*entity.Order, error)
	// UpdateOrderStatus is the restaurant path: scoped admins and superadmins.
	UpdateOrderStatus(ctx context.Context, identity *entity.Identity, input UpdateOrderStatusInput) (*entity.Order, error)
}
