package impl

import (
	"context"
	"testing"

	"foodorder/internal/domain/entity"
	domainerrors "foodorder/internal/domain/errors"
	"foodorder/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuService_CRUD(t *testing.T) {
	f := newServiceFixtures(t)
	ctx := context.Background()
	restaurant := f.seedRestaurant(t, "Pho Place", true)
	rid := restaurant.ID.String()
	staff := f.seedUser(t, "staff@example.com", entity.RoleRestaurantAdmin, rid)

	item, err := f.menus.CreateItem(ctx, staff, rid, usecase.CreateMenuItemInput{
		Name:  " Pho Bo ",
		Price: decimal.RequireFromString("12.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Pho Bo", item.Name)
	assert.True(t, item.Available)

	_, err = f.menus.CreateItem(ctx, staff, rid, usecase.CreateMenuItemInput{
		Name:  "Pho Bo",
		Price: decimal.RequireFromString("11.00"),
	})
	require.ErrorIs(t, err, domainerrors.ErrDuplicateItem)

	unavailable := false
	_, err = f.menus.UpdateItem(ctx, staff, rid, item.ID.String(), usecase.UpdateMenuItemInput{Available: &unavailable})
	require.NoError(t, err)

	all, err := f.menus.ListItems(ctx, rid, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	available, err := f.menus.ListItems(ctx, rid, true)
	require.NoError(t, err)
	assert.Empty(t, available)

	got, err := f.menus.GetItem(ctx, rid, item.ID.String())
	require.NoError(t, err)
	assert.False(t, got.Available)

	require.NoError(t, f.menus.DeleteItem(ctx, staff, rid, item.ID.String()))

	_, err = f.menus.GetItem(ctx, rid, item.ID.String())
	require.ErrorIs(t, err, domainerrors.ErrItemNotFound)

	err = f.menus.DeleteItem(ctx, staff, rid, item.ID.String())
	require.ErrorIs(t, err, domainerrors.ErrItemNotFound)

	entries, total, err := f.auditRepo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, entity.AuditActionDeleteMenuItem, entries[0].Action)
	assert.Equal(t, "Pho Bo", entries[0].Before["name"])
	assert.Nil(t, entries[0].After)
}

func TestMenuService_CreateItem_Rejects(t *testing.T) {
	f := newServiceFixtures(t)
	ctx := context.Background()
	restaurant := f.seedRestaurant(t, "Pho Place", true)
	other := f.seedRestaurant(t, "Curry Corner", true)
	rid := restaurant.ID.String()
	staff := f.seedUser(t, "staff@example.com", entity.RoleRestaurantAdmin, rid)
	customer := f.seedUser(t, "customer@example.com", entity.RoleUser)

	tests := []struct {
		name         string
		identity     *entity.Identity
		restaurantID string
		input        usecase.CreateMenuItemInput
		wantErr      error
	}{
		{"customer", customer, rid, usecase.CreateMenuItemInput{Name: "Soup", Price: decimal.NewFromInt(3)}, domainerrors.ErrForbidden},
		{"other restaurant", staff, other.ID.String(), usecase.CreateMenuItemInput{Name: "Soup", Price: decimal.NewFromInt(3)}, domainerrors.ErrForbidden},
		{"missing restaurant id", staff, "", usecase.CreateMenuItemInput{Name: "Soup", Price: decimal.NewFromInt(3)}, domainerrors.ErrMissingRestaurantID},
		{"blank name", staff, rid, usecase.CreateMenuItemInput{Name: "  ", Price: decimal.NewFromInt(3)}, domainerrors.ErrValidationFailed},
		{"zero price", staff, rid, usecase.CreateMenuItemInput{Name: "Soup", Price: decimal.Zero}, domainerrors.ErrInvalidPrice},
		{"fractional cents", staff, rid, usecase.CreateMenuItemInput{Name: "Soup", Price: decimal.RequireFromString("1.005")}, domainerrors.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.menus.CreateItem(ctx, tt.identity, tt.restaurantID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	items, err := f.menus.ListItems(ctx, rid, false)
	require.NoError(t, err)
	assert.Empty(t, items)
}
