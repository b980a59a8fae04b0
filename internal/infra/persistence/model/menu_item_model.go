package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuItemModel mirrors the 'menu_items' table.
type MenuItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_menu_items_restaurant_name,priority:1"`
	Name         string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_menu_items_restaurant_name,priority:2"`
	Description  string          `gorm:"type:text"`
	Price        decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Available    bool            `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (MenuItemModel) TableName() string {
	return "menu_items"
}

// BeforeCreate assigns a time-ordered id when none is set.
func (m *MenuItemModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}
