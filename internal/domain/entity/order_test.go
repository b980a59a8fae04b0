package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending, OrderStatusAccepted, OrderStatusRejected, OrderStatusPreparing,
		OrderStatusReady, OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled,
	}
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending:        {OrderStatusAccepted, OrderStatusRejected, OrderStatusCancelled},
		OrderStatusAccepted:       {OrderStatusPreparing, OrderStatusCancelled, OrderStatusRejected},
		OrderStatusPreparing:      {OrderStatusReady, OrderStatusCancelled},
		OrderStatusReady:          {OrderStatusOutForDelivery},
		OrderStatusOutForDelivery: {OrderStatusDelivered},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatus_NextStatuses(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   []OrderStatus
	}{
		{OrderStatusPending, []OrderStatus{OrderStatusAccepted, OrderStatusRejected, OrderStatusCancelled}},
		{OrderStatusOutForDelivery, []OrderStatus{OrderStatusDelivered}},
		{OrderStatusRejected, nil},
		{OrderStatusCancelled, nil},
		{OrderStatusDelivered, nil},
		{OrderStatus("unknown"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			got := tt.status.NextStatuses()
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderStatus_CustomerCanCancel(t *testing.T) {
	assert.True(t, OrderStatusPending.CustomerCanCancel())
	assert.True(t, OrderStatusAccepted.CustomerCanCancel())
	assert.False(t, OrderStatusPreparing.CustomerCanCancel())
	assert.False(t, OrderStatusReady.CustomerCanCancel())
	assert.False(t, OrderStatusDelivered.CustomerCanCancel())
}

func TestOrderStatus_IsValid(t *testing.T) {
	assert.True(t, OrderStatusReady.IsValid())
	assert.False(t, OrderStatus("shipped").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestNewOrderLine_SnapshotsAndRounds(t *testing.T) {
	item := &MenuItem{
		ID:    uuid.New(),
		Name:  "Samosa",
		Price: decimal.RequireFromString("4.50"),
	}

	line := NewOrderLine(item, 3)

	assert.Equal(t, item.ID, line.ItemID)
	assert.Equal(t, "Samosa", line.ItemName)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, "13.50", line.LineTotal.StringFixed(2))

	item.Price = decimal.RequireFromString("9.99")
	assert.Equal(t, "4.50", line.UnitPrice.StringFixed(2))
}

func TestSumLines(t *testing.T) {
	lines := []OrderLine{
		{LineTotal: decimal.RequireFromString("13.50")},
		{LineTotal: decimal.RequireFromString("0.335")},
	}

	assert.Equal(t, "13.84", SumLines(lines).StringFixed(2))
	assert.True(t, SumLines(nil).IsZero())
}

func TestRoundMoney_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, "2.68", RoundMoney(decimal.RequireFromString("2.675")).StringFixed(2))
	assert.Equal(t, "-2.68", RoundMoney(decimal.RequireFromString("-2.675")).StringFixed(2))
}
