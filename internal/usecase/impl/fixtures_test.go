package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"foodorder/config"
	"foodorder/internal/domain/entity"
	"foodorder/internal/domain/repository"
	"foodorder/internal/domain/service"
	"foodorder/internal/infra/auth"
	"foodorder/internal/infra/persistence/postgres"
	"foodorder/internal/infra/persistence/sqlitetest"
	"foodorder/internal/infra/qrcode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:     4,
			SessionTTL:     time.Hour,
			ResendCooldown: time.Minute,
			VerifyBaseURL:  "https://food.example.com/verify",
		},
	}
	cfg.SecretKey.Session = "session-secret-for-tests"
	cfg.SecretKey.Verification = "verification-secret-for-tests"

	return cfg
}

// MockMailer is a testify mock of service.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerification(ctx context.Context, to, name, link string) error {
	return m.Called(ctx, to, name, link).Error(0)
}

// MockEventPublisher is a testify mock of service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderEvent(ctx context.Context, event *service.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

// serviceFixtures wires every service over one in-memory database.
type serviceFixtures struct {
	cfg            *config.Config
	userRepo       repository.UserRepository
	restaurantRepo repository.RestaurantRepository
	menuRepo       repository.MenuItemRepository
	auditRepo      repository.AuditRepository
	hasher         service.PasswordHasher
	tokens         service.TokenService
	mailer         *MockMailer
	publisher      *MockEventPublisher

	auth        *authService
	orders      *orderService
	menus       *menuService
	restaurants *restaurantService
	admin       *adminService
	audit       *auditService
}

func newServiceFixtures(t *testing.T) *serviceFixtures {
	t.Helper()

	db := sqlitetest.New(t)
	cfg := newTestConfig()
	logger := newDiscardLogger()

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	f := &serviceFixtures{
		cfg:            cfg,
		userRepo:       postgres.NewUserRepository(db),
		restaurantRepo: postgres.NewRestaurantRepository(db),
		menuRepo:       postgres.NewMenuItemRepository(db),
		auditRepo:      postgres.NewAuditRepository(db),
		hasher:         auth.NewBcryptHasher(cfg),
		tokens:         tokens,
		mailer:         &MockMailer{},
		publisher:      &MockEventPublisher{},
	}
	txManager := postgres.NewTransactionManager(db)

	f.auth = newAuthService(AuthServiceParams{
		UserRepo:     f.userRepo,
		Hasher:       f.hasher,
		TokenService: f.tokens,
		Mailer:       f.mailer,
		Config:       cfg,
		Logger:       logger,
	})
	f.auth.dispatch = func(fn func()) { fn() }

	f.orders = NewOrderService(OrderServiceParams{
		TxManager: txManager,
		OrderRepo: postgres.NewOrderRepository(db),
		Publisher: f.publisher,
		Logger:    logger,
	}).(*orderService)
	f.menus = NewMenuService(MenuServiceParams{
		TxManager:      txManager,
		MenuItemRepo:   f.menuRepo,
		RestaurantRepo: f.restaurantRepo,
		Logger:         logger,
	}).(*menuService)
	f.restaurants = NewRestaurantService(RestaurantServiceParams{
		TxManager:      txManager,
		RestaurantRepo: f.restaurantRepo,
		QRCodeService:  qrcode.NewQRCodeService(128, "M", "https://food.example.com/menu"),
		Logger:         logger,
	}).(*restaurantService)
	f.admin = NewAdminService(AdminServiceParams{
		TxManager: txManager,
		UserRepo:  f.userRepo,
		Logger:    logger,
	}).(*adminService)
	f.audit = NewAuditService(f.auditRepo).(*auditService)

	f.publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil).Maybe()

	return f
}

// seedUser stores a verified account and returns its identity.
func (f *serviceFixtures) seedUser(t *testing.T, email string, role entity.Role, restaurantIDs ...string) *entity.Identity {
	t.Helper()

	hash, err := f.hasher.Hash("Password123!")
	require.NoError(t, err)

	user := &entity.User{
		Email:         email,
		Name:          email,
		PasswordHash:  hash,
		Role:          role,
		RestaurantIDs: restaurantIDs,
		Verified:      true,
	}
	require.NoError(t, f.userRepo.Create(context.Background(), user))

	stored, err := f.userRepo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)

	return entity.IdentityFromUser(stored)
}

func (f *serviceFixtures) seedRestaurant(t *testing.T, name string, approved bool) *entity.Restaurant {
	t.Helper()

	restaurant := &entity.Restaurant{
		Name:     name,
		Slug:     entity.Slugify(name),
		Approved: approved,
	}
	require.NoError(t, f.restaurantRepo.Create(context.Background(), restaurant))

	return restaurant
}

func (f *serviceFixtures) seedItem(t *testing.T, restaurantID uuid.UUID, name, price string, available bool) *entity.MenuItem {
	t.Helper()

	item := &entity.MenuItem{
		RestaurantID: restaurantID,
		Name:         name,
		Price:        decimal.RequireFromString(price),
		Available:    available,
	}
	require.NoError(t, f.menuRepo.Create(context.Background(), item))

	return item
}
