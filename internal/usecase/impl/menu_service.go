package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "foodorder/internal/delivery/context"
	"foodorder/internal/domain/entity"
	domainerrors "foodorder/internal/domain/errors"
	"foodorder/internal/domain/policy"
	"foodorder/internal/domain/repository"
	"foodorder/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// menuService implements the MenuUsecase interface.
type menuService struct {
	txManager      repository.TransactionManager
	menuItemRepo   repository.MenuItemRepository
	restaurantRepo repository.RestaurantRepository
	logger         *slog.Logger
}

// MenuServiceParams holds dependencies for MenuService, injected by Fx.
type MenuServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	MenuItemRepo   repository.MenuItemRepository
	RestaurantRepo repository.RestaurantRepository
	Logger         *slog.Logger
}

// NewMenuService is the constructor for menuService.
func NewMenuService(params MenuServiceParams) usecase.MenuUsecase {
	return &menuService{
		txManager:      params.TxManager,
		menuItemRepo:   params.MenuItemRepo,
		restaurantRepo: params.RestaurantRepo,
		logger:         params.Logger,
	}
}

func (srv *menuService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListItems returns the menu sorted by name.
func (srv *menuService) ListItems(ctx context.Context, restaurantID string, onlyAvailable bool) ([]*entity.MenuItem, error) {
	id, err := parseID(restaurantID, "restaurant_id")
	if err != nil {
		return nil, err
	}

	items, err := srv.menuItemRepo.ListByRestaurant(ctx, id, onlyAvailable)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list menu items")
	}

	return items, nil
}

func (srv *menuService) GetItem(ctx context.Context, restaurantID, itemID string) (*entity.MenuItem, error) {
	rid, err := parseID(restaurantID, "restaurant_id")
	if err != nil {
		return nil, err
	}
	iid, err := parseID(itemID, "item_id")
	if err != nil {
		return nil, err
	}

	return findMenuItem(ctx, srv.menuItemRepo, rid, iid)
}

func (srv *menuService) CreateItem(ctx context.Context, identity *entity.Identity, restaurantID string, input usecase.CreateMenuItemInput) (*entity.MenuItem, error) {
	if err := policy.RequireRestaurantScope(identity, restaurantID); err != nil {
		return nil, err
	}
	rid, err := parseID(restaurantID, "restaurant_id")
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("name is required"))
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}

	item := &entity.MenuItem{
		RestaurantID: rid,
		Name:         name,
		Description:  input.Description,
		Price:        input.Price,
		Available:    input.Available == nil || *input.Available,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.RestaurantRepo().FindByID(ctx, rid); err != nil {
			if errors.Is(err, repository.ErrRestaurantNotFound) {
				return errors.WithStack(domainerrors.ErrRestaurantNotFound)
			}

			return errors.Wrap(err, "failed to load restaurant")
		}
		if err := repoFactory.MenuItemRepo().Create(ctx, item); err != nil {
			return err
		}

		return repoFactory.AuditRepo().Create(ctx, entity.NewAuditEntry(identity, entity.AuditActionCreateMenuItem,
			entity.AuditResourceMenuItem, item.ID.String(), nil, item.Snapshot(), ""))
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create menu item")
	}

	srv.log(ctx).Info("Menu item created", slog.String("restaurantID", rid.String()), slog.String("itemID", item.ID.String()))

	return item, nil
}

func (srv *menuService) UpdateItem(ctx context.Context, identity *entity.Identity, restaurantID, itemID string, input usecase.UpdateMenuItemInput) (*entity.MenuItem, error) {
	if err := policy.RequireRestaurantScope(identity, restaurantID); err != nil {
		return nil, err
	}
	rid, err := parseID(restaurantID, "restaurant_id")
	if err != nil {
		return nil, err
	}
	iid, err := parseID(itemID, "item_id")
	if err != nil {
		return nil, err
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("name must not be empty"))
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
	}

	var item *entity.MenuItem
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := findMenuItem(ctx, repoFactory.MenuItemRepo(), rid, iid)
		if err != nil {
			return err
		}
		before := found.Snapshot()

		if input.Name != nil {
			found.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			found.Description = *input.Description
		}
		if input.Price != nil {
			found.Price = *input.Price
		}
		if input.Available != nil {
			found.Available = *input.Available
		}

		if err := repoFactory.MenuItemRepo().Update(ctx, found); err != nil {
			if errors.Is(err, repository.ErrMenuItemNotFound) {
				return errors.WithStack(domainerrors.ErrItemNotFound)
			}

			return err
		}
		item = found

		return repoFactory.AuditRepo().Create(ctx, entity.NewAuditEntry(identity, entity.AuditActionUpdateMenuItem,
			entity.AuditResourceMenuItem, found.ID.String(), before, found.Snapshot(), ""))
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update menu item")
	}

	srv.log(ctx).Info("Menu item updated", slog.String("itemID", iid.String()))

	return item, nil
}

func (srv *menuService) DeleteItem(ctx context.Context, identity *entity.Identity, restaurantID, itemID string) error {
	if err := policy.RequireRestaurantScope(identity, restaurantID); err != nil {
		return err
	}
	rid, err := parseID(restaurantID, "restaurant_id")
	if err != nil {
		return err
	}
	iid, err := parseID(itemID, "item_id")
	if err != nil {
		return err
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := findMenuItem(ctx, repoFactory.MenuItemRepo(), rid, iid)
		if err != nil {
			return err
		}
		if err := repoFactory.MenuItemRepo().Delete(ctx, rid, iid); err != nil {
			if errors.Is(err, repository.ErrMenuItemNotFound) {
				return errors.WithStack(domainerrors.ErrItemNotFound)
			}

			return err
		}

		return repoFactory.AuditRepo().Create(ctx, entity.NewAuditEntry(identity, entity.AuditActionDeleteMenuItem,
			entity.AuditResourceMenuItem, iid.String(), found.Snapshot(), nil, ""))
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete menu item")
	}

	srv.log(ctx).Info("Menu item deleted", slog.String("itemID", iid.String()))

	return nil
}

func findMenuItem(ctx context.Context, repo repository.MenuItemRepository, restaurantID, itemID uuid.UUID) (*entity.MenuItem, error) {
	item, err := repo.FindByID(ctx, restaurantID, itemID)
	if errors.Is(err, repository.ErrMenuItemNotFound) {
		return nil, errors.WithStack(domainerrors.ErrItemNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load menu item")
	}

	return item, nil
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return errors.WithStack(domainerrors.ErrInvalidPrice)
	}
	if !price.Equal(entity.RoundMoney(price)) {
		return errors.WithStack(domainerrors.ErrInvalidPrice.WithDetails("at most two decimal places"))
	}

	return nil
}
