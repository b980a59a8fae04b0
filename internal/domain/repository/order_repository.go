package repository

import (
	"context"
	"errors"

	"foodorder/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrStatusPreconditionFailed is returned when the conditional status update matched no row.
	ErrStatusPreconditionFailed = errors.New("order status precondition failed")
)

// StatusUpdate moves an order from an expected status to a new one.
type StatusUpdate struct {
	OrderID uuid.UUID
	From    entity.OrderStatus
	To      entity.OrderStatus
	Reason  string
}

// OrderRepository defines order persistence.
type OrderRepository interface {
	// Create persists the order with its lines.
	Create(ctx context.Context, order *entity.Order) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// List returns a newest-first page and the total count of the filter.
	List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, int64, error)

	// UpdateStatus writes the new status only if the stored status still equals
	// update.From, returning ErrStatusPreconditionFailed otherwise.
	UpdateStatus(ctx context.Context, update StatusUpdate) (*entity.Order, error)
}
