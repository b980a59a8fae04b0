// Package policy holds the authorization predicates applied before any
// restaurant, menu or order mutation touches the store.
package policy

import (
	"strings"

	"foodorder/internal/domain/entity"
	domainerrors "foodorder/internal/domain/errors"
	"foodorder/internal/errors"
)

// RequireRole passes only if the identity's role is one of allowed.
func RequireRole(identity *entity.Identity, allowed ...entity.Role) error {
	if identity == nil {
		return errors.WithStack(domainerrors.ErrForbidden)
	}
	if !entity.Roles(allowed).Contains(identity.Role) {
		return errors.WithStack(domainerrors.ErrForbidden.WithDetails("role " + identity.Role.String() + " is not allowed"))
	}

	return nil
}

// RequireRestaurantScope lets a superadmin through for every restaurant and a
// restaurant_admin only for restaurants in its scope. A blank restaurant id
// is a bad request, not a denial.
func RequireRestaurantScope(identity *entity.Identity, restaurantID string) error {
	if strings.TrimSpace(restaurantID) == "" {
		return errors.WithStack(domainerrors.ErrMissingRestaurantID)
	}
	if identity == nil {
		return errors.WithStack(domainerrors.ErrForbidden)
	}

	switch identity.Role {
	case entity.RoleSuperadmin:
		return nil
	case entity.RoleRestaurantAdmin:
		if identity.HasRestaurant(restaurantID) {
			return nil
		}

		return errors.WithStack(domainerrors.ErrForbidden.WithDetails("restaurant is outside of your scope"))
	default:
		return errors.WithStack(domainerrors.ErrForbidden)
	}
}

// CanReadOrder reports whether the identity may see the order: its owner, a
// scoped restaurant admin or a superadmin.
func CanReadOrder(identity *entity.Identity, order *entity.Order) bool {
	if identity == nil || order == nil {
		return false
	}
	if identity.IsSuperadmin() || order.UserID == identity.UserID {
		return true
	}

	return identity.Role == entity.RoleRestaurantAdmin && identity.HasRestaurant(order.RestaurantID.String())
}
