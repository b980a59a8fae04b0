package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditEntryModel mirrors the append-only 'audit_log' table.
type AuditEntryModel struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ActorEmail   string         `gorm:"type:varchar(255);not null;index"`
	Action       string         `gorm:"type:varchar(64);not null"`
	ResourceType string         `gorm:"type:varchar(32);not null"`
	ResourceID   string         `gorm:"type:varchar(64);not null;index"`
	Before       datatypes.JSON `gorm:"column:before_state"`
	After        datatypes.JSON `gorm:"column:after_state"`
	Reason       string         `gorm:"type:text"`
	CreatedAt    time.Time      `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (AuditEntryModel) TableName() string {
	return "audit_log"
}

// BeforeCreate assigns a time-ordered id when none is set.
func (m *AuditEntryModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&UserModel{},
		&RestaurantModel{},
		&MenuItemModel{},
		&OrderModel{},
		&OrderLineModel{},
		&AuditEntryModel{},
	}
}
