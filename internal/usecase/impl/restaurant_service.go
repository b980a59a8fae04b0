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
	"foodorder/internal/domain/service"
	"foodorder/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const minRestaurantNameLength = 2

// restaurantService implements the RestaurantUsecase interface.
type restaurantService struct {
	txManager      repository.TransactionManager
	restaurantRepo repository.RestaurantRepository
	qrcodeService  service.QRCodeService
	logger         *slog.Logger
}

// RestaurantServiceParams holds dependencies for RestaurantService, injected by Fx.
type RestaurantServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	RestaurantRepo repository.RestaurantRepository
	QRCodeService  service.QRCodeService
	Logger         *slog.Logger
}

// NewRestaurantService is the constructor for restaurantService.
func NewRestaurantService(params RestaurantServiceParams) usecase.RestaurantUsecase {
	return &restaurantService{
		txManager:      params.TxManager,
		restaurantRepo: params.RestaurantRepo,
		qrcodeService:  params.QRCodeService,
		logger:         params.Logger,
	}
}

func (srv *restaurantService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *restaurantService) ListRestaurants(ctx context.Context, identity *entity.Identity, input usecase.ListRestaurantsInput) (*usecase.RestaurantPage, error) {
	filter := repository.RestaurantFilter{ApprovedOnly: true}
	if identity.IsSuperadmin() {
		filter.ApprovedOnly = !input.IncludeUnapproved
		filter.IncludeDisabled = input.IncludeDisabled
	}
	filter.Offset, filter.Limit = normalizePage(input.Offset, input.Limit)

	restaurants, total, err := srv.restaurantRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list restaurants")
	}

	return &usecase.RestaurantPage{Restaurants: restaurants, Total: total}, nil
}

func (srv *restaurantService) GetRestaurant(ctx context.Context, restaurantID string) (*entity.Restaurant, error) {
	id, err := parseID(restaurantID, "restaurant_id")
	if err != nil {
		return nil, err
	}

	return findRestaurant(ctx, srv.restaurantRepo, id)
}

// CreateRestaurant lets a superadmin create an approved restaurant for any
// owner. Everyone else files an application owned by themselves.
func (srv *restaurantService) CreateRestaurant(ctx context.Context, identity *entity.Identity, input usecase.CreateRestaurantInput) (*entity.Restaurant, error) {
	if err := policy.RequireRole(identity, anyRole...); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	slug := entity.Slugify(name)
	if len(name) < minRestaurantNameLength || slug == "" {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("restaurant name is too short"))
	}

	restaurant := &entity.Restaurant{
		Name:        name,
		Slug:        slug,
		Description: input.Description,
		Address:     input.Address,
		Phone:       input.Phone,
		OwnerEmail:  identity.Email,
	}
	if identity.IsSuperadmin() {
		restaurant.Approved = true
		restaurant.OwnerEmail = normalizeEmail(input.OwnerEmail)
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		restaurantRepo := repoFactory.RestaurantRepo()
		if restaurant.OwnerEmail != "" {
			exists, err := restaurantRepo.ExistsByOwnerEmail(ctx, restaurant.OwnerEmail)
			if err != nil {
				return err
			}
			if exists {
				return errors.WithStack(domainerrors.ErrDuplicateOwner)
			}
		}
		if err := restaurantRepo.Create(ctx, restaurant); err != nil {
			return err
		}

		return repoFactory.AuditRepo().Create(ctx, entity.NewAuditEntry(identity, entity.AuditActionCreateRestaurant,
			entity.AuditResourceRestaurant, restaurant.ID.String(), nil, restaurant.Snapshot(), ""))
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create restaurant")
	}

	srv.log(ctx).Info("Restaurant created",
		slog.String("restaurantID", restaurant.ID.String()),
		slog.Bool("approved", restaurant.Approved),
	)

	return restaurant, nil
}

// UpdateRestaurant applies a partial update; a rename re-derives the slug.
func (srv *restaurantService) UpdateRestaurant(ctx context.Context, identity *entity.Identity, restaurantID string, input usecase.UpdateRestaurantInput) (*entity.Restaurant, error) {
	if err := policy.RequireRestaurantScope(identity, restaurantID); err != nil {
		return nil, err
	}
	id, err := parseID(restaurantID, "restaurant_id")
	if err != nil {
		return nil, err
	}

	var newName, newSlug string
	if input.Name != nil {
		newName = strings.TrimSpace(*input.Name)
		newSlug = entity.Slugify(newName)
		if len(newName) < minRestaurantNameLength || newSlug == "" {
			return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("restaurant name is too short"))
		}
	}

	return srv.mutate(ctx, identity, id, entity.AuditActionUpdateRestaurant, "", func(r *entity.Restaurant) {
		if input.Name != nil {
			r.Name = newName
			r.Slug = newSlug
		}
		if input.Description != nil {
			r.Description = *input.Description
		}
		if input.Address != nil {
			r.Address = *input.Address
		}
		if input.Phone != nil {
			r.Phone = *input.Phone
		}
	})
}

func (srv *restaurantService) ApproveRestaurant(ctx context.Context, identity *entity.Identity, restaurantID string) (*entity.Restaurant, error) {
	if err := policy.RequireRole(identity, entity.RoleSuperadmin); err != nil {
		return nil, err
	}
	id, err := parseID(restaurantID, "restaurant_id")
	if err != nil {
		return nil, err
	}

	return srv.mutate(ctx, identity, id, entity.AuditActionApproveRestaurant, "", func(r *entity.Restaurant) {
		r.Approved = true
	})
}

// DisableRestaurant is a soft delete; the restaurant stops taking orders.
func (srv *restaurantService) DisableRestaurant(ctx context.Context, identity *entity.Identity, restaurantID, reason string) (*entity.Restaurant, error) {
	if err := policy.RequireRole(identity, entity.RoleSuperadmin); err != nil {
		return nil, err
	}
	id, err := parseID(restaurantID, "restaurant_id")
	if err != nil {
		return nil, err
	}

	return srv.mutate(ctx, identity, id, entity.AuditActionDisableRestaurant, strings.TrimSpace(reason), func(r *entity.Restaurant) {
		r.Disabled = true
	})
}

// mutate loads the restaurant, applies change and writes it back with an audit entry.
func (srv *restaurantService) mutate(
	ctx context.Context,
	identity *entity.Identity,
	id uuid.UUID,
	action entity.AuditAction,
	reason string,
	change func(*entity.Restaurant),
) (*entity.Restaurant, error) {
	var restaurant *entity.Restaurant
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := findRestaurant(ctx, repoFactory.RestaurantRepo(), id)
		if err != nil {
			return err
		}
		before := found.Snapshot()
		change(found)

		if err := repoFactory.RestaurantRepo().Update(ctx, found); err != nil {
			if errors.Is(err, repository.ErrRestaurantNotFound) {
				return errors.WithStack(domainerrors.ErrRestaurantNotFound)
			}

			return err
		}
		restaurant = found

		return repoFactory.AuditRepo().Create(ctx, entity.NewAuditEntry(identity, action,
			entity.AuditResourceRestaurant, id.String(), before, found.Snapshot(), reason))
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to %s", action)
	}

	srv.log(ctx).Info("Restaurant changed", slog.String("restaurantID", id.String()), slog.String("action", string(action)))

	return restaurant, nil
}

// MenuQRCode renders a PNG QR code linking to the restaurant's public menu.
func (srv *restaurantService) MenuQRCode(ctx context.Context, restaurantID string) ([]byte, error) {
	id, err := parseID(restaurantID, "restaurant_id")
	if err != nil {
		return nil, err
	}
	if _, err := findRestaurant(ctx, srv.restaurantRepo, id); err != nil {
		return nil, err
	}

	png, err := srv.qrcodeService.GenerateMenuQR(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate menu QR code")
	}

	return png, nil
}

func findRestaurant(ctx context.Context, repo repository.RestaurantRepository, id uuid.UUID) (*entity.Restaurant, error) {
	restaurant, err := repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrRestaurantNotFound) {
		return nil, errors.WithStack(domainerrors.ErrRestaurantNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load restaurant")
	}

	return restaurant, nil
}
