package main

import (
	"context"
	"log/slog"
	"os"

	"foodorder/config"
	"foodorder/internal/delivery"
	"foodorder/internal/delivery/api"
	"foodorder/internal/delivery/api/middleware"
	"foodorder/internal/delivery/api/router/handler"
	"foodorder/internal/domain/service"
	"foodorder/internal/infra/auth"
	logs "foodorder/internal/infra/log"
	"foodorder/internal/infra/mail"
	"foodorder/internal/infra/persistence/postgres"
	"foodorder/internal/infra/pubsub"
	"foodorder/internal/infra/qrcode"
	"foodorder/internal/infra/ratelimit"
	"foodorder/internal/usecase/impl"

	"go.uber.org/fx"
)

const (
	defaultQRSize    = 256
	defaultQRLevel   = "M"
	defaultQRBaseURL = "http://localhost:8080/menu"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewTransactionManager,
			postgres.NewUserRepository,
			postgres.NewRestaurantRepository,
			postgres.NewMenuItemRepository,
			postgres.NewOrderRepository,
			postgres.NewAuditRepository,
			fx.Annotate(
				postgres.NewHealthChecker,
				fx.As(new(handler.Pinger)),
			),
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			mail.NewMailer,
			pubsub.NewEventPublisher,
			ratelimit.NewRateLimiter,
			newQRCodeService,
		),
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return qrcode.NewQRCodeService(defaultQRSize, defaultQRLevel, defaultQRBaseURL)
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewRestaurantService,
			impl.NewMenuService,
			impl.NewOrderService,
			impl.NewAdminService,
			impl.NewAuditService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewRateLimitMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewHealthHandler,
			handler.NewAuthHandler,
			handler.NewRestaurantHandler,
			handler.NewMenuHandler,
			handler.NewOrderHandler,
			handler.NewAdminHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
