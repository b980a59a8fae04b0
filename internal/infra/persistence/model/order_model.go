package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderModel mirrors the 'orders' table.
type OrderModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserEmail    string          `gorm:"type:varchar(255);not null"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status       string          `gorm:"type:varchar(32);not null;index"`
	Reason       string          `gorm:"type:text"`
	CreatedAt    time.Time       `gorm:"index"`
	UpdatedAt    time.Time

	Lines []OrderLineModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// BeforeCreate assigns a time-ordered id when none is set.
func (m *OrderModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}

// OrderLineModel mirrors the 'order_lines' table. Lines are written once with
// their order and never updated.
type OrderLineModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position  int             `gorm:"not null"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName  string          `gorm:"type:varchar(200);not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Quantity  int             `gorm:"not null"`
	LineTotal decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// TableName explicitly sets the table name for GORM.
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// BeforeCreate assigns a time-ordered id when none is set.
func (m *OrderLineModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}
