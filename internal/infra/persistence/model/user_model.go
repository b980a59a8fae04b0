// Package model holds the GORM persistence models. They are exported so the
// GORM Gen tool can read them from cmd/gen.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserModel mirrors the 'users' table.
type UserModel struct {
	ID                 uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Email              string                      `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name               string                      `gorm:"type:varchar(100)"`
	PasswordHash       string                      `gorm:"type:varchar(255);not null"`
	Role               string                      `gorm:"type:varchar(32);not null;default:'user'"`
	RestaurantIDs      datatypes.JSONSlice[string] `gorm:"column:restaurant_ids"`
	TokenVersion       int                         `gorm:"not null;default:0"`
	Disabled           bool                        `gorm:"not null;default:false"`
	Verified           bool                        `gorm:"not null;default:false"`
	VerifiedAt         *time.Time
	VerificationSentAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// BeforeCreate assigns a time-ordered id when none is set.
func (m *UserModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}

func assignID(id *uuid.UUID) error {
	if *id != uuid.Nil {
		return nil
	}

	next, err := uuid.NewV7()
	if err != nil {
		return err
	}
	*id = next

	return nil
}
