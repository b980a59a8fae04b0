package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

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

//nolint:gochecknoglobals
var anyRole = []entity.Role{entity.RoleUser, entity.RoleRestaurantAdmin, entity.RoleSuperadmin}

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager repository.TransactionManager
	orderRepo repository.OrderRepository
	publisher service.EventPublisher
	now       func() time.Time
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OrderRepo repository.OrderRepository
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager: params.TxManager,
		orderRepo: params.OrderRepo,
		publisher: params.Publisher,
		now:       time.Now,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

type parsedLine struct {
	itemID   uuid.UUID
	quantity int
}

// CreateOrder validates the cart against the menu and stores a pending order
// whose lines snapshot each item's name and price.
func (srv *orderService) CreateOrder(ctx context.Context, identity *entity.Identity, input usecase.CreateOrderInput) (*entity.Order, error) {
	if err := policy.RequireRole(identity, anyRole...); err != nil {
		return nil, err
	}
	if len(input.Lines) == 0 {
		return nil, errors.WithStack(domainerrors.ErrEmptyCart)
	}

	restaurantID, err := parseID(input.RestaurantID, "restaurant_id")
	if err != nil {
		return nil, err
	}
	lines, itemIDs, err := parseCart(input.Lines)
	if err != nil {
		return nil, err
	}

	var order *entity.Order
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		restaurant, err := repoFactory.RestaurantRepo().FindByID(ctx, restaurantID)
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return errors.WithStack(domainerrors.ErrRestaurantNotFound)
		}
		if err != nil {
			return errors.Wrap(err, "failed to load restaurant")
		}
		if !restaurant.AcceptsOrders() {
			return errors.WithStack(domainerrors.ErrRestaurantUnavailable)
		}

		items, err := repoFactory.MenuItemRepo().FindByIDs(ctx, itemIDs)
		if err != nil {
			return errors.Wrap(err, "failed to load menu items")
		}
		byID, err := checkCartItems(items, itemIDs, restaurantID)
		if err != nil {
			return err
		}

		orderLines := make([]entity.OrderLine, 0, len(lines))
		for _, line := range lines {
			orderLines = append(orderLines, entity.NewOrderLine(byID[line.itemID], line.quantity))
		}

		order = &entity.Order{
			UserID:       identity.UserID,
			UserEmail:    identity.Email,
			RestaurantID: restaurantID,
			Lines:        orderLines,
			TotalAmount:  entity.SumLines(orderLines),
			Status:       entity.OrderStatusPending,
		}

		return repoFactory.OrderRepo().Create(ctx, order)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	srv.log(ctx).Info("Order created",
		slog.String("orderID", order.ID.String()),
		slog.String("restaurantID", restaurantID.String()),
		slog.String("total", order.TotalAmount.StringFixed(2)),
	)
	srv.publish(ctx, service.OrderEventCreated, order, "", identity.Email)

	return order, nil
}

// parseCart validates quantities and ids and returns the de-duplicated item ids.
func parseCart(inputs []usecase.OrderLineInput) ([]parsedLine, []uuid.UUID, error) {
	lines := make([]parsedLine, 0, len(inputs))
	ids := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]struct{}, len(inputs))

	for _, in := range inputs {
		if in.Quantity < 1 {
			return nil, nil, errors.WithStack(domainerrors.ErrInvalidQuantity)
		}
		itemID, err := parseID(in.ItemID, "item_id")
		if err != nil {
			return nil, nil, err
		}

		lines = append(lines, parsedLine{itemID: itemID, quantity: in.Quantity})
		if _, ok := seen[itemID]; !ok {
			seen[itemID] = struct{}{}
			ids = append(ids, itemID)
		}
	}

	return lines, ids, nil
}

func checkCartItems(items []*entity.MenuItem, wanted []uuid.UUID, restaurantID uuid.UUID) (map[uuid.UUID]*entity.MenuItem, error) {
	if len(items) != len(wanted) {
		return nil, errors.WithStack(domainerrors.ErrItemNotFound.WithDetails("one or more items do not exist"))
	}

	byID := make(map[uuid.UUID]*entity.MenuItem, len(items))
	for _, item := range items {
		if item.RestaurantID != restaurantID {
			return nil, errors.WithStack(domainerrors.ErrItemNotInRestaurant.WithDetails(item.ID.String()))
		}
		if !item.Available {
			return nil, errors.WithStack(domainerrors.ErrItemUnavailable.WithDetails(item.Name))
		}
		byID[item.ID] = item
	}

	return byID, nil
}

// GetOrder returns the order if the caller may read it. Orders the caller
// may not see are reported as missing.
func (srv *orderService) GetOrder(ctx context.Context, identity *entity.Identity, orderID string) (*entity.Order, error) {
	id, err := parseID(orderID, "order_id")
	if err != nil {
		return nil, err
	}

	order, err := srv.findOrder(ctx, srv.orderRepo, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadOrder(identity, order) {
		return nil, errors.WithStack(domainerrors.ErrOrderNotFound)
	}

	return order, nil
}

func (srv *orderService) ListMyOrders(ctx context.Context, identity *entity.Identity, input usecase.ListOrdersInput) (*usecase.OrderPage, error) {
	if err := policy.RequireRole(identity, anyRole...); err != nil {
		return nil, err
	}

	userID := identity.UserID

	return srv.list(ctx, entity.OrderFilter{UserID: &userID}, input)
}

func (srv *orderService) ListRestaurantOrders(ctx context.Context, identity *entity.Identity, restaurantID string, input usecase.ListOrdersInput) (*usecase.OrderPage, error) {
	if err := policy.RequireRestaurantScope(identity, restaurantID); err != nil {
		return nil, err
	}
	id, err := parseID(restaurantID, "restaurant_id")
	if err != nil {
		return nil, err
	}

	return srv.list(ctx, entity.OrderFilter{RestaurantIDs: []uuid.UUID{id}}, input)
}

// ListManagedOrders lists orders of every restaurant in the caller's scope.
// A superadmin sees all orders.
func (srv *orderService) ListManagedOrders(ctx context.Context, identity *entity.Identity, input usecase.ListOrdersInput) (*usecase.OrderPage, error) {
	if err := policy.RequireRole(identity, entity.RoleRestaurantAdmin, entity.RoleSuperadmin); err != nil {
		return nil, err
	}

	filter := entity.OrderFilter{}
	if !identity.IsSuperadmin() {
		filter.RestaurantIDs = make([]uuid.UUID, 0, len(identity.RestaurantIDs))
		for _, raw := range identity.RestaurantIDs {
			if id, err := uuid.Parse(raw); err == nil {
				filter.RestaurantIDs = append(filter.RestaurantIDs, id)
			}
		}
	}

	return srv.list(ctx, filter, input)
}

func (srv *orderService) list(ctx context.Context, filter entity.OrderFilter, input usecase.ListOrdersInput) (*usecase.OrderPage, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("unknown order status " + input.Status.String()))
	}
	filter.Status = input.Status
	filter.Offset, filter.Limit = normalizePage(input.Offset, input.Limit)

	orders, total, err := srv.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return &usecase.OrderPage{Orders: orders, Total: total}, nil
}

// CancelOrder lets the owner cancel while the order is still pending or accepted.
func (srv *orderService) CancelOrder(ctx context.Context, identity *entity.Identity, orderID, reason string) (*entity.Order, error) {
	if err := policy.RequireRole(identity, anyRole...); err != nil {
		return nil, err
	}
	id, err := parseID(orderID, "order_id")
	if err != nil {
		return nil, err
	}

	var before, after *entity.Order
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := srv.findOrder(ctx, repoFactory.OrderRepo(), id)
		if err != nil {
			return err
		}
		before = found
		if before.UserID != identity.UserID {
			return errors.WithStack(domainerrors.ErrOrderNotFound)
		}
		if !before.Status.CustomerCanCancel() {
			return errors.WithStack(domainerrors.ErrOrderNotCancellable.WithDetails("order is " + before.Status.String()))
		}

		after, err = srv.transition(ctx, repoFactory, identity, before, entity.OrderStatusCancelled, strings.TrimSpace(reason), entity.AuditActionCancelOrder)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to cancel order")
	}

	srv.log(ctx).Info("Order cancelled by customer", slog.String("orderID", id.String()))
	srv.publish(ctx, service.OrderEventStatusChanged, after, before.Status, identity.Email)

	return after, nil
}

// UpdateOrderStatus drives a lifecycle transition on behalf of the restaurant.
func (srv *orderService) UpdateOrderStatus(ctx context.Context, identity *entity.Identity, input usecase.UpdateOrderStatusInput) (*entity.Order, error) {
	if err := policy.RequireRestaurantScope(identity, input.RestaurantID); err != nil {
		return nil, err
	}
	restaurantID, err := parseID(input.RestaurantID, "restaurant_id")
	if err != nil {
		return nil, err
	}
	orderID, err := parseID(input.OrderID, "order_id")
	if err != nil {
		return nil, err
	}
	if !input.Status.IsValid() {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("unknown order status " + input.Status.String()))
	}
	reason := strings.TrimSpace(input.Reason)
	if input.Status.RequiresReason() && reason == "" {
		return nil, errors.WithStack(domainerrors.ErrReasonRequired)
	}

	var before, after *entity.Order
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := srv.findOrder(ctx, repoFactory.OrderRepo(), orderID)
		if err != nil {
			return err
		}
		before = found
		if before.RestaurantID != restaurantID {
			return errors.WithStack(domainerrors.ErrOrderNotFound)
		}

		after, err = srv.transition(ctx, repoFactory, identity, before, input.Status, reason, entity.AuditActionUpdateOrderStatus)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update order status")
	}

	srv.log(ctx).Info("Order status updated",
		slog.String("orderID", orderID.String()),
		slog.String("from", before.Status.String()),
		slog.String("to", after.Status.String()),
	)
	srv.publish(ctx, service.OrderEventStatusChanged, after, before.Status, identity.Email)

	return after, nil
}

// transition validates the edge, applies the conditional update and appends
// the audit entry. It must run inside the caller's transaction.
func (srv *orderService) transition(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	identity *entity.Identity,
	order *entity.Order,
	to entity.OrderStatus,
	reason string,
	action entity.AuditAction,
) (*entity.Order, error) {
	if !order.Status.CanTransitionTo(to) {
		next := order.Status.NextStatuses()
		allowed := make([]string, 0, len(next))
		for _, status := range next {
			allowed = append(allowed, status.String())
		}

		return nil, errors.WithStack(domainerrors.NewInvalidTransitionError(order.Status.String(), to.String(), allowed))
	}

	updated, err := repoFactory.OrderRepo().UpdateStatus(ctx, repository.StatusUpdate{
		OrderID: order.ID,
		From:    order.Status,
		To:      to,
		Reason:  reason,
	})
	if errors.Is(err, repository.ErrStatusPreconditionFailed) {
		return nil, errors.WithStack(domainerrors.ErrOrderStatusConflict)
	}
	if err != nil {
		return nil, err
	}

	entry := entity.NewAuditEntry(identity, action, entity.AuditResourceOrder, order.ID.String(),
		map[string]any{"status": order.Status.String()},
		map[string]any{"status": to.String()},
		reason,
	)
	if err := repoFactory.AuditRepo().Create(ctx, entry); err != nil {
		return nil, err
	}

	return updated, nil
}

func (srv *orderService) findOrder(ctx context.Context, repo repository.OrderRepository, id uuid.UUID) (*entity.Order, error) {
	order, err := repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, errors.WithStack(domainerrors.ErrOrderNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load order")
	}

	return order, nil
}

// publish emits the event after commit. Delivery problems never fail the request.
func (srv *orderService) publish(ctx context.Context, eventType string, order *entity.Order, from entity.OrderStatus, actor string) {
	if srv.publisher == nil {
		return
	}

	event := &service.OrderEvent{
		RequestID:    deliverycontext.GetRequestIDFromContext(ctx),
		Type:         eventType,
		OrderID:      order.ID.String(),
		RestaurantID: order.RestaurantID.String(),
		UserEmail:    order.UserEmail,
		FromStatus:   from.String(),
		Status:       order.Status.String(),
		TotalAmount:  order.TotalAmount.StringFixed(2),
		Actor:        actor,
		OccurredAt:   srv.now().UTC(),
	}
	if err := srv.publisher.PublishOrderEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order event",
			slog.String("type", eventType),
			slog.String("orderID", event.OrderID),
			slog.Any("error", err),
		)
	}
}
