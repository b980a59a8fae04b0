package repository

import (
	"context"
	"errors"

	"foodorder/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrMenuItemNotFound is returned when a (restaurant, item) pair does not resolve.
var ErrMenuItemNotFound = errors.New("menu item not found")

// MenuItemRepository defines menu persistence.
type MenuItemRepository interface {
	// FindByID resolves an item only within its restaurant.
	FindByID(ctx context.Context, restaurantID, itemID uuid.UUID) (*entity.MenuItem, error)

	// FindByIDs fetches a batch of items regardless of restaurant.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.MenuItem, error)

	// ListByRestaurant returns items sorted by name.
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, onlyAvailable bool) ([]*entity.MenuItem, error)

	// Create fails with ErrDuplicateItem if the name is taken in the restaurant.
	Create(ctx context.Context, item *entity.MenuItem) error

	Update(ctx context.Context, item *entity.MenuItem) error

	Delete(ctx context.Context, restaurantID, itemID uuid.UUID) error
}
