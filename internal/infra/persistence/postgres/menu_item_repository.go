package postgres

import (
	"context"
	"time"

	"foodorder/internal/domain/entity"
	domainerrors "foodorder/internal/domain/errors"
	"foodorder/internal/domain/repository"
	"foodorder/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// menuItemRepository implements the repository.MenuItemRepository interface.
type menuItemRepository struct {
	db *gorm.DB
}

// NewMenuItemRepository is the constructor for menuItemRepository.
func NewMenuItemRepository(db *gorm.DB) repository.MenuItemRepository {
	return &menuItemRepository{db: db}
}

func (repo *menuItemRepository) FindByID(ctx context.Context, restaurantID, itemID uuid.UUID) (*entity.MenuItem, error) {
	var itemM model.MenuItemModel
	if err := repo.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", itemID, restaurantID).
		First(&itemM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMenuItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find menu item")
	}

	return toMenuItemDomain(&itemM), nil
}

func (repo *menuItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.MenuItem, error) {
	if len(ids) == 0 {
		return []*entity.MenuItem{}, nil
	}

	var itemModels []*model.MenuItemModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&itemModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find menu items")
	}

	return toMenuItemsDomain(itemModels), nil
}

func (repo *menuItemRepository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, onlyAvailable bool) ([]*entity.MenuItem, error) {
	query := repo.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if onlyAvailable {
		query = query.Where("available = ?", true)
	}

	var itemModels []*model.MenuItemModel
	if err := query.Order("name ASC").Find(&itemModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list menu items")
	}

	return toMenuItemsDomain(itemModels), nil
}

func (repo *menuItemRepository) Create(ctx context.Context, item *entity.MenuItem) error {
	itemM := fromMenuItemDomain(item)

	if err := repo.db.WithContext(ctx).Create(itemM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return errors.WithStack(domainerrors.ErrDuplicateItem)
		}
		if isForeignKeyConstraintViolation(err) {
			return errors.WithStack(domainerrors.ErrRestaurantNotFound)
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create menu item")
	}

	item.ID = itemM.ID
	item.CreatedAt = itemM.CreatedAt
	item.UpdatedAt = itemM.UpdatedAt

	return nil
}

func (repo *menuItemRepository) Update(ctx context.Context, item *entity.MenuItem) error {
	if item.ID == uuid.Nil {
		return repository.ErrMenuItemNotFound
	}

	itemM := fromMenuItemDomain(item)
	itemM.UpdatedAt = time.Now()

	result := repo.db.WithContext(ctx).
		Model(itemM).
		Where("restaurant_id = ?", item.RestaurantID).
		Select("name", "description", "price", "available", "updated_at").
		Updates(itemM)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return errors.WithStack(domainerrors.ErrDuplicateItem)
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update menu item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrMenuItemNotFound
	}

	item.UpdatedAt = itemM.UpdatedAt

	return nil
}

func (repo *menuItemRepository) Delete(ctx context.Context, restaurantID, itemID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", itemID, restaurantID).
		Delete(&model.MenuItemModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete menu item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrMenuItemNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toMenuItemsDomain(itemModels []*model.MenuItemModel) []*entity.MenuItem {
	items := make([]*entity.MenuItem, 0, len(itemModels))
	for _, itemM := range itemModels {
		items = append(items, toMenuItemDomain(itemM))
	}

	return items
}

func toMenuItemDomain(data *model.MenuItemModel) *entity.MenuItem {
	if data == nil {
		return nil
	}

	return &entity.MenuItem{
		ID:           data.ID,
		RestaurantID: data.RestaurantID,
		Name:         data.Name,
		Description:  data.Description,
		Price:        data.Price,
		Available:    data.Available,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromMenuItemDomain(data *entity.MenuItem) *model.MenuItemModel {
	if data == nil {
		return nil
	}

	return &model.MenuItemModel{
		ID:           data.ID,
		RestaurantID: data.RestaurantID,
		Name:         data.Name,
		Description:  data.Description,
		Price:        data.Price,
		Available:    data.Available,
		CreatedAt:    data.CreatedAt,
	}
}
