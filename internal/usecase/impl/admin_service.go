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
	"go.uber.org/fx"
)

// adminService implements the AdminUsecase interface.
type adminService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	logger    *slog.Logger
}

// AdminServiceParams holds dependencies for AdminService, injected by Fx.
type AdminServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Logger    *slog.Logger
}

// NewAdminService is the constructor for adminService.
func NewAdminService(params AdminServiceParams) usecase.AdminUsecase {
	return &adminService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		logger:    params.Logger,
	}
}

func (srv *adminService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *adminService) ListUsers(ctx context.Context, identity *entity.Identity, offset, limit int) (*usecase.UserPage, error) {
	if err := policy.RequireRole(identity, entity.RoleSuperadmin); err != nil {
		return nil, err
	}
	offset, limit = normalizePage(offset, limit)

	users, total, err := srv.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return &usecase.UserPage{Users: users, Total: total}, nil
}

func (srv *adminService) GetUser(ctx context.Context, identity *entity.Identity, userID string) (*entity.User, error) {
	if err := policy.RequireRole(identity, entity.RoleSuperadmin); err != nil {
		return nil, err
	}
	id, err := parseID(userID, "user_id")
	if err != nil {
		return nil, err
	}

	return findUser(ctx, srv.userRepo, id)
}

// PromoteToRestaurantAdmin grants an existing user the restaurant_admin role
// over the given restaurants.
func (srv *adminService) PromoteToRestaurantAdmin(ctx context.Context, identity *entity.Identity, input usecase.PromoteUserInput) (*entity.User, error) {
	if err := policy.RequireRole(identity, entity.RoleSuperadmin); err != nil {
		return nil, err
	}
	restaurantIDs, err := parseRestaurantIDs(input.RestaurantIDs)
	if err != nil {
		return nil, err
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		target, err := repoFactory.UserRepo().FindByEmail(ctx, normalizeEmail(input.Email))
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.WithStack(domainerrors.ErrUserNotFound)
		}
		if err != nil {
			return errors.Wrap(err, "failed to load user")
		}

		user, err = srv.applyRoleChange(ctx, repoFactory, identity, target, entity.AuditActionPromoteUser, repository.UserRoleChange{
			Role:          entity.RoleRestaurantAdmin,
			RestaurantIDs: restaurantIDs,
		}, "")

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to promote user")
	}

	srv.log(ctx).Info("User promoted to restaurant admin", slog.String("userID", user.ID.String()), slog.Any("restaurantIDs", restaurantIDs))

	return user, nil
}

// ChangeRole replaces role and scope. Roles other than restaurant_admin carry no scope.
func (srv *adminService) ChangeRole(ctx context.Context, identity *entity.Identity, userID string, input usecase.ChangeRoleInput) (*entity.User, error) {
	if err := policy.RequireRole(identity, entity.RoleSuperadmin); err != nil {
		return nil, err
	}
	id, err := parseID(userID, "user_id")
	if err != nil {
		return nil, err
	}
	if !input.Role.IsValid() {
		return nil, errors.WithStack(domainerrors.ErrInvalidRole.WithDetails(input.Role.String()))
	}

	var restaurantIDs []string
	if input.Role == entity.RoleRestaurantAdmin {
		if restaurantIDs, err = parseRestaurantIDs(input.RestaurantIDs); err != nil {
			return nil, err
		}
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		target, err := findUser(ctx, repoFactory.UserRepo(), id)
		if err != nil {
			return err
		}

		user, err = srv.applyRoleChange(ctx, repoFactory, identity, target, entity.AuditActionChangeRole, repository.UserRoleChange{
			Role:          input.Role,
			RestaurantIDs: restaurantIDs,
		}, strings.TrimSpace(input.Reason))

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to change user role")
	}

	srv.log(ctx).Info("User role changed", slog.String("userID", id.String()), slog.String("role", input.Role.String()))

	return user, nil
}

func (srv *adminService) applyRoleChange(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	identity *entity.Identity,
	target *entity.User,
	action entity.AuditAction,
	change repository.UserRoleChange,
	reason string,
) (*entity.User, error) {
	for _, raw := range change.RestaurantIDs {
		if _, err := findRestaurant(ctx, repoFactory.RestaurantRepo(), uuid.MustParse(raw)); err != nil {
			return nil, err
		}
	}

	before := target.Snapshot()
	if err := repoFactory.UserRepo().ChangeRole(ctx, target.ID, change); err != nil {
		return nil, mapUserWriteError(err)
	}

	return srv.reloadAndAudit(ctx, repoFactory, identity, target.ID, action, before, reason)
}

// RevokeTokens invalidates every outstanding session of the user.
func (srv *adminService) RevokeTokens(ctx context.Context, identity *entity.Identity, userID, reason string) (*entity.User, error) {
	return srv.bump(ctx, identity, userID, reason, entity.AuditActionRevokeTokens, func(ctx context.Context, repo repository.UserRepository, id uuid.UUID) error {
		return repo.IncrementTokenVersion(ctx, id)
	})
}

// DisableUser blocks the account and invalidates its sessions.
func (srv *adminService) DisableUser(ctx context.Context, identity *entity.Identity, userID, reason string) (*entity.User, error) {
	return srv.bump(ctx, identity, userID, reason, entity.AuditActionDisableUser, func(ctx context.Context, repo repository.UserRepository, id uuid.UUID) error {
		return repo.Disable(ctx, id)
	})
}

func (srv *adminService) bump(
	ctx context.Context,
	identity *entity.Identity,
	userID, reason string,
	action entity.AuditAction,
	apply func(context.Context, repository.UserRepository, uuid.UUID) error,
) (*entity.User, error) {
	if err := policy.RequireRole(identity, entity.RoleSuperadmin); err != nil {
		return nil, err
	}
	id, err := parseID(userID, "user_id")
	if err != nil {
		return nil, err
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		target, err := findUser(ctx, repoFactory.UserRepo(), id)
		if err != nil {
			return err
		}
		before := target.Snapshot()

		if err := apply(ctx, repoFactory.UserRepo(), id); err != nil {
			return mapUserWriteError(err)
		}

		user, err = srv.reloadAndAudit(ctx, repoFactory, identity, id, action, before, strings.TrimSpace(reason))

		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to %s", action)
	}

	srv.log(ctx).Info("User access changed", slog.String("userID", id.String()), slog.String("action", string(action)))

	return user, nil
}

func (srv *adminService) reloadAndAudit(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	identity *entity.Identity,
	userID uuid.UUID,
	action entity.AuditAction,
	before map[string]any,
	reason string,
) (*entity.User, error) {
	updated, err := findUser(ctx, repoFactory.UserRepo(), userID)
	if err != nil {
		return nil, err
	}

	entry := entity.NewAuditEntry(identity, action, entity.AuditResourceUser, userID.String(), before, updated.Snapshot(), reason)
	if err := repoFactory.AuditRepo().Create(ctx, entry); err != nil {
		return nil, err
	}

	return updated, nil
}

// parseRestaurantIDs validates and canonicalizes a restaurant_admin scope,
// which must name at least one restaurant.
func parseRestaurantIDs(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("at least one restaurant id is required"))
	}
	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(r, "restaurant_ids")
		if err != nil {
			return nil, err
		}
		ids = append(ids, id.String())
	}

	return ids, nil
}

func findUser(ctx context.Context, repo repository.UserRepository, id uuid.UUID) (*entity.User, error) {
	user, err := repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.WithStack(domainerrors.ErrUserNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user")
	}

	return user, nil
}

func mapUserWriteError(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return errors.WithStack(domainerrors.ErrUserNotFound)
	}

	return err
}
