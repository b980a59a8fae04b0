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

// restaurantRepository implements the repository.RestaurantRepository interface.
type restaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository is the constructor for restaurantRepository.
func NewRestaurantRepository(db *gorm.DB) repository.RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (repo *restaurantRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Restaurant, error) {
	var restaurantM model.RestaurantModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&restaurantM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRestaurantNotFound
		}

		return nil, errors.Wrap(err, "failed to find restaurant by id")
	}

	return toRestaurantDomain(&restaurantM), nil
}

func (repo *restaurantRepository) ExistsByOwnerEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.RestaurantModel{}).
		Where("owner_email = ?", email).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check restaurant owner")
	}

	return count > 0, nil
}

// List returns restaurants ordered by name together with the total count.
func (repo *restaurantRepository) List(ctx context.Context, filter repository.RestaurantFilter) ([]*entity.Restaurant, int64, error) {
	base := repo.db.WithContext(ctx).Model(&model.RestaurantModel{})
	if filter.ApprovedOnly {
		base = base.Where("approved = ?", true)
	}
	if !filter.IncludeDisabled {
		base = base.Where("disabled = ?", false)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count restaurants")
	}

	query := base.Session(&gorm.Session{}).Order("name ASC").Order("id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var restaurantModels []*model.RestaurantModel
	if err := query.Find(&restaurantModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list restaurants")
	}

	restaurants := make([]*entity.Restaurant, 0, len(restaurantModels))
	for _, restaurantM := range restaurantModels {
		restaurants = append(restaurants, toRestaurantDomain(restaurantM))
	}

	return restaurants, total, nil
}

func (repo *restaurantRepository) Create(ctx context.Context, restaurant *entity.Restaurant) error {
	restaurantM := fromRestaurantDomain(restaurant)

	if err := repo.db.WithContext(ctx).Create(restaurantM).Error; err != nil {
		return restaurantWriteError(err, "failed to create restaurant")
	}

	restaurant.ID = restaurantM.ID
	restaurant.CreatedAt = restaurantM.CreatedAt
	restaurant.UpdatedAt = restaurantM.UpdatedAt

	return nil
}

func (repo *restaurantRepository) Update(ctx context.Context, restaurant *entity.Restaurant) error {
	if restaurant.ID == uuid.Nil {
		return repository.ErrRestaurantNotFound
	}

	restaurantM := fromRestaurantDomain(restaurant)
	restaurantM.UpdatedAt = time.Now()

	result := repo.db.WithContext(ctx).
		Model(restaurantM).
		Select("name", "slug", "description", "address", "phone", "owner_email", "approved", "disabled", "updated_at").
		Updates(restaurantM)
	if result.Error != nil {
		return restaurantWriteError(result.Error, "failed to update restaurant")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRestaurantNotFound
	}

	restaurant.UpdatedAt = restaurantM.UpdatedAt

	return nil
}

func restaurantWriteError(err error, msg string) error {
	switch {
	case uniqueViolationOn(err, "owner_email"):
		return errors.WithStack(domainerrors.ErrDuplicateOwner)
	case isUniqueConstraintViolation(err):
		return errors.WithStack(domainerrors.ErrDuplicateSlug)
	default:
		return domainerrors.NewDatabaseExecuteError(err, msg)
	}
}

// --- Mapper Functions ---

func toRestaurantDomain(data *model.RestaurantModel) *entity.Restaurant {
	if data == nil {
		return nil
	}

	restaurant := &entity.Restaurant{
		ID:          data.ID,
		Name:        data.Name,
		Slug:        data.Slug,
		Description: data.Description,
		Address:     data.Address,
		Phone:       data.Phone,
		Approved:    data.Approved,
		Disabled:    data.Disabled,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
	if data.OwnerEmail != nil {
		restaurant.OwnerEmail = *data.OwnerEmail
	}

	return restaurant
}

func fromRestaurantDomain(data *entity.Restaurant) *model.RestaurantModel {
	if data == nil {
		return nil
	}

	restaurantM := &model.RestaurantModel{
		ID:          data.ID,
		Name:        data.Name,
		Slug:        data.Slug,
		Description: data.Description,
		Address:     data.Address,
		Phone:       data.Phone,
		Approved:    data.Approved,
		Disabled:    data.Disabled,
		CreatedAt:   data.CreatedAt,
	}
	if data.OwnerEmail != "" {
		owner := data.OwnerEmail
		restaurantM.OwnerEmail = &owner
	}

	return restaurantM
}
