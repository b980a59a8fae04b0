package usecase

import (
	"context"

	"foodorder/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// CreateMenuItemInput defines a new dish.
type CreateMenuItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Available   *bool // defaults to true
}

// UpdateMenuItemInput is a partial update; nil fields are left unchanged.
type UpdateMenuItemInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Available   *bool
}

// MenuUsecase defines menu catalog operations.
type MenuUsecase interface {
	ListItems(ctx context.Context, restaurantID string, onlyAvailable bool) ([]*entity.MenuItem, error)
	GetItem(ctx context.Context, restaurantID, itemID string) (*entity.MenuItem, error)
	CreateItem(ctx context.Context, identity *entity.Identity, restaurantID string, input CreateMenuItemInput) (*entity.MenuItem, error)
	UpdateItem(ctx context.Context, identity *entity.Identity, restaurantID, itemID string, input UpdateMenuItemInput) (*entity.MenuItem, error)
	DeleteItem(ctx context.Context, identity *entity.Identity, restaurantID, itemID string) error
}
