// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the type of role a user can have in the system.
type Role string

const (
	// RoleUser is a regular customer.
	RoleUser Role = "user"
	// RoleRestaurantAdmin manages the restaurants listed in the user's restaurant id set.
	RoleRestaurantAdmin Role = "restaurant_admin"
	// RoleSuperadmin manages users, restaurants and the audit log.
	RoleSuperadmin Role = "superadmin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleRestaurantAdmin, RoleSuperadmin:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}
