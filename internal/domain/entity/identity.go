package entity

import (
	"slices"

	"github.com/google/uuid"
)

// Identity is the authenticated caller of a request, resolved from a session
// token and checked against the live user record.
type Identity struct {
	UserID        uuid.UUID
	Email         string
	Role          Role
	RestaurantIDs []string
	TokenVersion  int
}

// IsSuperadmin reports whether the caller is a superadmin.
func (i *Identity) IsSuperadmin() bool {
	return i != nil && i.Role == RoleSuperadmin
}

// HasRestaurant reports whether the restaurant id is in the caller's scope.
func (i *Identity) HasRestaurant(restaurantID string) bool {
	return i != nil && slices.Contains(i.RestaurantIDs, restaurantID)
}

// IdentityFromUser builds the identity of a stored user.
func IdentityFromUser(u *User) *Identity {
	return &Identity{
		UserID:        u.ID,
		Email:         u.Email,
		Role:          u.Role,
		RestaurantIDs: slices.Clone(u.RestaurantIDs),
		TokenVersion:  u.TokenVersion,
	}
}
