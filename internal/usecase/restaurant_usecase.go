package usecase

import (
	"context"

	"foodorder/internal/domain/entity"
)

// CreateRestaurantInput defines a restaurant or a restaurant application.
type CreateRestaurantInput struct {
	Name        string
	Description string
	Address     string
	Phone       string
	OwnerEmail  string // honoured for superadmins only
}

// UpdateRestaurantInput is a partial update; nil fields are left unchanged.
type UpdateRestaurantInput struct {
	Name        *string
	Description *string
	Address     *string
	Phone       *string
}

// ListRestaurantsInput pages the directory.
type ListRestaurantsInput struct {
	IncludeUnapproved bool
	IncludeDisabled   bool
	Offset            int
	Limit             int
}

// RestaurantPage is one page of restaurants and the total matching count.
type RestaurantPage struct {
	Restaurants []*entity.Restaurant
	Total       int64
}

// RestaurantUsecase defines the restaurant directory.
type RestaurantUsecase interface {
	// ListRestaurants shows approved, enabled restaurants; the include flags
	// are honoured for superadmins only.
	ListRestaurants(ctx context.Context, identity *entity.Identity, input ListRestaurantsInput) (*RestaurantPage, error)
	GetRestaurant(ctx context.Context, restaurantID string) (*entity.Restaurant, error)
	CreateRestaurant(ctx context.Context, identity *entity.Identity, input CreateRestaurantInput) (*entity.Restaurant, error)
	UpdateRestaurant(ctx context.Context, identity *entity.Identity, restaurantID string, input UpdateRestaurantInput) (*entity.Restaurant, error)
	ApproveRestaurant(ctx context.Context, identity *entity.Identity, restaurantID string) (*entity.Restaurant, error)
	DisableRestaurant(ctx context.Context, identity *entity.Identity, restaurantID, reason string) (*entity.Restaurant, error)
	MenuQRCode(ctx context.Context, restaurantID string) ([]byte, error)
}
