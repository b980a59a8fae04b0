package middleware

import (
	"log/slog"

	"foodorder/config"
	"foodorder/internal/delivery/api/response"
	deliverycontext "foodorder/internal/delivery/context"
	domainerrors "foodorder/internal/domain/errors"
	"foodorder/internal/domain/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RateLimitParams holds dependencies for RateLimitMiddleware, injected by Fx.
type RateLimitParams struct {
	fx.In

	Limiter      service.RateLimiter
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// RateLimitMiddleware counts requests per session subject, or per client IP
// for anonymous calls.
type RateLimitMiddleware struct {
	limiter  service.RateLimiter
	tokenSvc service.TokenService
	exclude  map[string]struct{}
	logger   *slog.Logger
}

// NewRateLimitMiddleware is the constructor for RateLimitMiddleware.
func NewRateLimitMiddleware(params RateLimitParams) *RateLimitMiddleware {
	exclude := make(map[string]struct{})
	if params.Config.RateLimit != nil {
		for _, path := range params.Config.RateLimit.ExcludePaths {
			exclude[path] = struct{}{}
		}
	}

	return &RateLimitMiddleware{
		limiter:  params.Limiter,
		tokenSvc: params.TokenService,
		exclude:  exclude,
		logger:   params.Logger,
	}
}

// Handle answers 429 once the caller has used up the window. Limiter
// failures let the request through.
func (m *RateLimitMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, skip := m.exclude[c.Request().URL.Path]; skip {
			return next(c)
		}

		ctx := c.Request().Context()
		allowed, err := m.limiter.Allow(ctx, m.key(c))
		if err != nil {
			deliverycontext.GetLoggerOrDefault(ctx, m.logger).Warn("Rate limiter unavailable", slog.Any("error", err))
		}
		if !allowed {
			return response.HandleAppError(c, domainerrors.ErrRateLimited)
		}

		return next(c)
	}
}

func (m *RateLimitMiddleware) key(c echo.Context) string {
	if token, ok := bearerToken(c); ok {
		if claims, err := m.tokenSvc.ParseSession(token); err == nil {
			return "user:" + claims.Subject
		}
	}

	return "ip:" + c.RealIP()
}
