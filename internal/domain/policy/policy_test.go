package policy

import (
	"testing"

	"foodorder/internal/domain/entity"
	domainerrors "foodorder/internal/domain/errors"
	"foodorder/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequireRole(t *testing.T) {
	admin := &entity.Identity{Role: entity.RoleRestaurantAdmin}

	assert.NoError(t, RequireRole(admin, entity.RoleRestaurantAdmin, entity.RoleSuperadmin))
	assert.True(t, errors.Is(RequireRole(admin, entity.RoleSuperadmin), domainerrors.ErrForbidden))
	assert.True(t, errors.Is(RequireRole(nil, entity.RoleUser), domainerrors.ErrForbidden))
}

func TestRequireRestaurantScope(t *testing.T) {
	restaurantID := uuid.NewString()
	other := uuid.NewString()

	tests := []struct {
		name         string
		identity     *entity.Identity
		restaurantID string
		wantErr      error
	}{
		{
			name:         "superadmin passes for any restaurant",
			identity:     &entity.Identity{Role: entity.RoleSuperadmin},
			restaurantID: other,
		},
		{
			name:         "admin passes for a member restaurant",
			identity:     &entity.Identity{Role: entity.RoleRestaurantAdmin, RestaurantIDs: []string{restaurantID}},
			restaurantID: restaurantID,
		},
		{
			name:         "admin is forbidden outside its scope",
			identity:     &entity.Identity{Role: entity.RoleRestaurantAdmin, RestaurantIDs: []string{restaurantID}},
			restaurantID: other,
			wantErr:      domainerrors.ErrForbidden,
		},
		{
			name:         "plain user is forbidden",
			identity:     &entity.Identity{Role: entity.RoleUser, RestaurantIDs: []string{restaurantID}},
			restaurantID: restaurantID,
			wantErr:      domainerrors.ErrForbidden,
		},
		{
			name:         "missing restaurant id is a bad request",
			identity:     &entity.Identity{Role: entity.RoleSuperadmin},
			restaurantID: " ",
			wantErr:      domainerrors.ErrMissingRestaurantID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireRestaurantScope(tt.identity, tt.restaurantID)
			if tt.wantErr == nil {
				assert.NoError(t, err)

				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestCanReadOrder(t *testing.T) {
	owner := uuid.New()
	restaurantID := uuid.New()
	order := &entity.Order{UserID: owner, RestaurantID: restaurantID}

	assert.True(t, CanReadOrder(&entity.Identity{UserID: owner, Role: entity.RoleUser}, order))
	assert.True(t, CanReadOrder(&entity.Identity{UserID: uuid.New(), Role: entity.RoleSuperadmin}, order))
	assert.True(t, CanReadOrder(&entity.Identity{
		UserID: uuid.New(), Role: entity.RoleRestaurantAdmin, RestaurantIDs: []string{restaurantID.String()},
	}, order))
	assert.False(t, CanReadOrder(&entity.Identity{UserID: uuid.New(), Role: entity.RoleUser}, order))
	assert.False(t, CanReadOrder(&entity.Identity{
		UserID: uuid.New(), Role: entity.RoleRestaurantAdmin, RestaurantIDs: []string{uuid.NewString()},
	}, order))
}
