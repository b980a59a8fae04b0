package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RestaurantModel mirrors the 'restaurants' table. OwnerEmail is NULL for
// restaurants without an owner account, so the unique index only binds owners.
type RestaurantModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Slug        string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	Address     string    `gorm:"type:text"`
	Phone       string    `gorm:"type:varchar(32)"`
	OwnerEmail  *string   `gorm:"type:varchar(255);uniqueIndex"`
	Approved    bool      `gorm:"not null;default:false;index"`
	Disabled    bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (RestaurantModel) TableName() string {
	return "restaurants"
}

// BeforeCreate assigns a time-ordered id when none is set.
func (m *RestaurantModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}
