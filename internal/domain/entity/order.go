package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is a state of the order lifecycle.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusAccepted       OrderStatus = "accepted"
	OrderStatusRejected       OrderStatus = "rejected"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// orderTransitions is the only place the lifecycle is defined. Every caller,
// customer or restaurant side, is validated against it.
//
//nolint:gochecknoglobals
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusAccepted, OrderStatusRejected, OrderStatusCancelled},
	OrderStatusAccepted:       {OrderStatusPreparing, OrderStatusCancelled, OrderStatusRejected},
	OrderStatusPreparing:      {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:          {OrderStatusOutForDelivery},
	OrderStatusOutForDelivery: {OrderStatusDelivered},
	OrderStatusRejected:       nil,
	OrderStatusCancelled:      nil,
	OrderStatusDelivered:      nil,
}

// customerCancellable lists the states from which the order owner may cancel.
//
//nolint:gochecknoglobals
var customerCancellable = []OrderStatus{OrderStatusPending, OrderStatusAccepted}

// String returns the string representation of the status.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]

	return ok
}

// CanTransitionTo reports whether from s to next is an edge of the lifecycle.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return slices.Contains(orderTransitions[s], next)
}

// NextStatuses returns the statuses reachable from s in one step.
func (s OrderStatus) NextStatuses() []OrderStatus {
	return slices.Clone(orderTransitions[s])
}

// CustomerCanCancel reports whether the order owner may still cancel.
func (s OrderStatus) CustomerCanCancel() bool {
	return slices.Contains(customerCancellable, s)
}

// RequiresReason reports whether moving into s needs a reason from the actor.
func (s OrderStatus) RequiresReason() bool {
	return s == OrderStatusRejected
}

// OrderLine is the snapshot of a menu item taken when the order was placed.
// Later menu edits never change it.
type OrderLine struct {
	ItemID    uuid.UUID
	ItemName  string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// Order is a customer's order at a single restaurant.
type Order struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	UserEmail    string
	RestaurantID uuid.UUID
	Lines        []OrderLine
	TotalAmount  decimal.Decimal
	Status       OrderStatus
	Reason       string // cancellation or rejection reason
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoundMoney rounds half away from zero to two decimal places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// NewOrderLine snapshots a menu item with its line total.
func NewOrderLine(item *MenuItem, quantity int) OrderLine {
	return OrderLine{
		ItemID:    item.ID,
		ItemName:  item.Name,
		UnitPrice: item.Price,
		Quantity:  quantity,
		LineTotal: RoundMoney(item.Price.Mul(decimal.NewFromInt(int64(quantity)))),
	}
}

// SumLines returns the rounded sum of the line totals.
func SumLines(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal)
	}

	return RoundMoney(total)
}

// OrderFilter narrows order listings. A nil RestaurantIDs does not filter;
// an empty non-nil one matches nothing.
type OrderFilter struct {
	UserID        *uuid.UUID
	RestaurantIDs []uuid.UUID
	Status        *OrderStatus
	Offset        int
	Limit         int
}
