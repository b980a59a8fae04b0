package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem is a dish offered by a restaurant. Names are unique per restaurant.
type MenuItem struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	Description  string
	Price        decimal.Decimal
	Available    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Snapshot returns the fields recorded in audit entries for menu changes.
func (m *MenuItem) Snapshot() map[string]any {
	return map[string]any{
		"restaurant_id": m.RestaurantID.String(),
		"name":          m.Name,
		"description":   m.Description,
		"price":         m.Price.StringFixed(2),
		"available":     m.Available,
	}
}
