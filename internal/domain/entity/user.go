// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// User is an account of the platform. Its role and restaurant scope are only
// changed by a superadmin, and every such change increments TokenVersion.
type User struct {
	ID                 uuid.UUID
	Email              string
	Name               string
	PasswordHash       string
	Role               Role
	RestaurantIDs      []string // restaurants a restaurant_admin may manage
	TokenVersion       int      // monotonic; sessions carrying an older value are revoked
	Disabled           bool
	Verified           bool
	VerifiedAt         *time.Time
	VerificationSentAt *time.Time // last verification email, used for the resend cooldown
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ManagesRestaurant reports whether the restaurant id is part of the user's scope.
func (u *User) ManagesRestaurant(restaurantID string) bool {
	return slices.Contains(u.RestaurantIDs, restaurantID)
}

// Snapshot returns the fields recorded in audit entries for user changes.
func (u *User) Snapshot() map[string]any {
	return map[string]any{
		"role":           u.Role.String(),
		"restaurant_ids": slices.Clone(u.RestaurantIDs),
		"token_version":  u.TokenVersion,
		"disabled":       u.Disabled,
	}
}
