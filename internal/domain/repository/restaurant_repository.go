package repository

import (
	"context"
	"errors"

	"foodorder/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrRestaurantNotFound is returned when a restaurant is not found.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// RestaurantFilter narrows restaurant listings.
type RestaurantFilter struct {
	ApprovedOnly    bool
	IncludeDisabled bool
	Offset          int
	Limit           int
}

// RestaurantRepository defines restaurant persistence.
type RestaurantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Restaurant, error)

	// ExistsByOwnerEmail reports whether the owner already has a restaurant.
	ExistsByOwnerEmail(ctx context.Context, email string) (bool, error)

	List(ctx context.Context, filter RestaurantFilter) ([]*entity.Restaurant, int64, error)

	// Create fails with ErrDuplicateSlug or ErrDuplicateOwner on unique index collisions.
	Create(ctx context.Context, restaurant *entity.Restaurant) error

	// Update writes every mutable column of the restaurant.
	Update(ctx context.Context, restaurant *entity.Restaurant) error
}
