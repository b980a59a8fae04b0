package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"foodorder/internal/domain/entity"
	domainerrors "foodorder/internal/domain/errors"
	"foodorder/internal/domain/repository"
	"foodorder/internal/infra/persistence/sqlitetest"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestUser(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()

	user := &entity.User{Email: email, Name: "Test", PasswordHash: "hash", Role: entity.RoleUser}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))

	return user
}

func createTestRestaurant(t *testing.T, db *gorm.DB, name string) *entity.Restaurant {
	t.Helper()

	restaurant := &entity.Restaurant{Name: name, Slug: entity.Slugify(name), Approved: true}
	require.NoError(t, NewRestaurantRepository(db).Create(context.Background(), restaurant))

	return restaurant
}

func createTestItem(t *testing.T, db *gorm.DB, restaurantID uuid.UUID, name, price string) *entity.MenuItem {
	t.Helper()

	item := &entity.MenuItem{
		RestaurantID: restaurantID,
		Name:         name,
		Price:        decimal.RequireFromString(price),
		Available:    true,
	}
	require.NoError(t, NewMenuItemRepository(db).Create(context.Background(), item))

	return item
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "ann@example.com")
	assert.NotEqual(t, uuid.Nil, user.ID)

	found, err := repo.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, entity.RoleUser, found.Role)
	assert.False(t, found.Verified)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", byID.Email)

	_, err = repo.FindByEmailForAuth(ctx, "missing@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	err = repo.Create(ctx, &entity.User{Email: "ann@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserRepository_TokenVersionIsIncrementedAtomically(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "admin@example.com")

	restaurantID := uuid.NewString()
	require.NoError(t, repo.ChangeRole(ctx, user.ID, repository.UserRoleChange{
		Role:          entity.RoleRestaurantAdmin,
		RestaurantIDs: []string{restaurantID, restaurantID},
	}))
	require.NoError(t, repo.IncrementTokenVersion(ctx, user.ID))
	require.NoError(t, repo.Disable(ctx, user.ID))

	found, err := repo.FindByEmailForAuth(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, found.TokenVersion)
	assert.Equal(t, entity.RoleRestaurantAdmin, found.Role)
	assert.Equal(t, []string{restaurantID}, found.RestaurantIDs)
	assert.True(t, found.Disabled)

	assert.ErrorIs(t, repo.IncrementTokenVersion(ctx, uuid.New()), repository.ErrUserNotFound)
}

func TestUserRepository_VerificationAndList(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := createTestUser(t, db, "a@example.com")
	createTestUser(t, db, "b@example.com")
	createTestUser(t, db, "c@example.com")

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.TouchVerificationSent(ctx, first.ID, now))
	require.NoError(t, repo.MarkVerified(ctx, first.ID, now))

	found, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, found.Verified)
	require.NotNil(t, found.VerifiedAt)
	require.NotNil(t, found.VerificationSentAt)
	assert.True(t, now.Equal(*found.VerificationSentAt))

	page, total, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "b@example.com", page[0].Email)
}

func TestRestaurantRepository_UniqueConstraints(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewRestaurantRepository(db)
	ctx := context.Background()

	owned := &entity.Restaurant{Name: "Spice Villa", Slug: "spice-villa", OwnerEmail: "owner@example.com"}
	require.NoError(t, repo.Create(ctx, owned))

	err := repo.Create(ctx, &entity.Restaurant{Name: "Spice  Villa!", Slug: "spice-villa"})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateSlug)

	err = repo.Create(ctx, &entity.Restaurant{Name: "Other", Slug: "other", OwnerEmail: "owner@example.com"})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateOwner)

	// Restaurants without an owner never collide on owner_email.
	require.NoError(t, repo.Create(ctx, &entity.Restaurant{Name: "A", Slug: "a"}))
	require.NoError(t, repo.Create(ctx, &entity.Restaurant{Name: "B", Slug: "b"}))

	exists, err := repo.ExistsByOwnerEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRestaurantRepository_ListFilters(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewRestaurantRepository(db)
	ctx := context.Background()

	approved := createTestRestaurant(t, db, "Alpha")
	require.NoError(t, repo.Create(ctx, &entity.Restaurant{Name: "Beta", Slug: "beta"}))
	disabled := createTestRestaurant(t, db, "Gamma")
	disabled.Disabled = true
	require.NoError(t, repo.Update(ctx, disabled))

	public, total, err := repo.List(ctx, repository.RestaurantFilter{ApprovedOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, public, 1)
	assert.Equal(t, approved.ID, public[0].ID)

	all, total, err := repo.List(ctx, repository.RestaurantFilter{IncludeDisabled: true})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	err = repo.Update(ctx, &entity.Restaurant{ID: uuid.New(), Name: "Ghost", Slug: "ghost"})
	assert.ErrorIs(t, err, repository.ErrRestaurantNotFound)
}

func TestMenuItemRepository(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewMenuItemRepository(db)
	ctx := context.Background()

	restaurant := createTestRestaurant(t, db, "Spice Villa")
	other := createTestRestaurant(t, db, "Other")
	naan := createTestItem(t, db, restaurant.ID, "Naan", "2.25")
	createTestItem(t, db, restaurant.ID, "Biryani", "4.50")
	createTestItem(t, db, other.ID, "Naan", "3.00")

	err := repo.Create(ctx, &entity.MenuItem{RestaurantID: restaurant.ID, Name: "Naan", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateItem)

	items, err := repo.ListByRestaurant(ctx, restaurant.ID, false)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Biryani", items[0].Name)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("4.50")))

	naan.Available = false
	require.NoError(t, repo.Update(ctx, naan))
	available, err := repo.ListByRestaurant(ctx, restaurant.ID, true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Biryani", available[0].Name)

	_, err = repo.FindByID(ctx, other.ID, naan.ID)
	assert.ErrorIs(t, err, repository.ErrMenuItemNotFound)

	batch, err := repo.FindByIDs(ctx, []uuid.UUID{naan.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, batch, 1)

	require.NoError(t, repo.Delete(ctx, restaurant.ID, naan.ID))
	assert.ErrorIs(t, repo.Delete(ctx, restaurant.ID, naan.ID), repository.ErrMenuItemNotFound)
}

func newTestOrder(user *entity.User, restaurantID uuid.UUID, items ...*entity.MenuItem) *entity.Order {
	lines := make([]entity.OrderLine, 0, len(items))
	for i, item := range items {
		lines = append(lines, entity.NewOrderLine(item, i+1))
	}

	return &entity.Order{
		UserID:       user.ID,
		UserEmail:    user.Email,
		RestaurantID: restaurantID,
		Lines:        lines,
		TotalAmount:  entity.SumLines(lines),
		Status:       entity.OrderStatusPending,
	}
}

func TestOrderRepository_CreateFindList(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "u@example.com")
	restaurant := createTestRestaurant(t, db, "Spice Villa")
	biryani := createTestItem(t, db, restaurant.ID, "Biryani", "4.50")
	naan := createTestItem(t, db, restaurant.ID, "Naan", "2.25")

	order := newTestOrder(user, restaurant.ID, biryani, naan)
	require.NoError(t, repo.Create(ctx, order))
	assert.NotEqual(t, uuid.Nil, order.ID)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 2)
	assert.Equal(t, "Biryani", found.Lines[0].ItemName)
	assert.Equal(t, 2, found.Lines[1].Quantity)
	assert.True(t, found.TotalAmount.Equal(decimal.RequireFromString("9.00")))

	second := newTestOrder(user, restaurant.ID, naan)
	require.NoError(t, repo.Create(ctx, second))

	pending := entity.OrderStatusPending
	orders, total, err := repo.List(ctx, entity.OrderFilter{UserID: &user.ID, Status: &pending, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, orders, 2)

	none, total, err := repo.List(ctx, entity.OrderFilter{RestaurantIDs: []uuid.UUID{}})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestOrderRepository_UpdateStatusIsConditional(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "u@example.com")
	restaurant := createTestRestaurant(t, db, "Spice Villa")
	order := newTestOrder(user, restaurant.ID, createTestItem(t, db, restaurant.ID, "Naan", "2.25"))
	require.NoError(t, repo.Create(ctx, order))

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := repo.UpdateStatus(ctx, repository.StatusUpdate{
				OrderID: order.ID,
				From:    entity.OrderStatusPending,
				To:      entity.OrderStatusAccepted,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, repository.ErrStatusPreconditionFailed):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)

	updated, err := repo.UpdateStatus(ctx, repository.StatusUpdate{
		OrderID: order.ID,
		From:    entity.OrderStatusAccepted,
		To:      entity.OrderStatusRejected,
		Reason:  "kitchen closed",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusRejected, updated.Status)
	assert.Equal(t, "kitchen closed", updated.Reason)
}

func TestAuditRepository_NewestFirst(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()
	actor := &entity.Identity{Email: "root@example.com", Role: entity.RoleSuperadmin}

	for _, action := range []entity.AuditAction{
		entity.AuditActionCreateRestaurant,
		entity.AuditActionCreateMenuItem,
		entity.AuditActionUpdateOrderStatus,
	} {
		entry := entity.NewAuditEntry(actor, action, entity.AuditResourceOrder, uuid.NewString(),
			map[string]any{"status": "pending"}, map[string]any{"status": "accepted"}, "")
		require.NoError(t, repo.Create(ctx, entry))
		assert.NotEqual(t, uuid.Nil, entry.ID)
	}

	entries, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.AuditActionUpdateOrderStatus, entries[0].Action)
	assert.Equal(t, entity.AuditActionCreateMenuItem, entries[1].Action)
	assert.Equal(t, "accepted", entries[0].After["status"])
	assert.Equal(t, "root@example.com", entries[0].ActorEmail)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	db := sqlitetest.New(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()

	errBoom := errors.New("boom")
	err := tm.Execute(ctx, func(factory repository.RepositoryFactory) error {
		if err := factory.UserRepo().Create(ctx, &entity.User{Email: "tx@example.com", PasswordHash: "h"}); err != nil {
			return err
		}

		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = NewUserRepository(db).FindByEmail(ctx, "tx@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	require.NoError(t, tm.Execute(ctx, func(factory repository.RepositoryFactory) error {
		return factory.UserRepo().Create(ctx, &entity.User{Email: "tx@example.com", PasswordHash: "h"})
	}))
	_, err = NewUserRepository(db).FindByEmail(ctx, "tx@example.com")
	assert.NoError(t, err)
}
