package middleware

import (
	"log/slog"
	"strings"

	"foodorder/internal/delivery/api/response"
	deliverycontext "foodorder/internal/delivery/context"
	"foodorder/internal/domain/entity"
	"foodorder/internal/usecase"

	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// AuthMiddleware resolves the caller's identity from the bearer token.
type AuthMiddleware struct {
	authUC usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authUC usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUC: authUC}
}

// Authenticate rejects requests without a valid, unrevoked session token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return response.Unauthorized(c, "INVALID_TOKEN", "Authorization header must carry a Bearer token")
		}

		if err := m.resolve(c, token); err != nil {
			return response.HandleAppError(c, err)
		}

		return next(c)
	}
}

// OptionalAuthenticate resolves the identity when a token is sent and lets
// anonymous requests through. A bad token is still rejected.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return next(c)
		}

		if err := m.resolve(c, token); err != nil {
			return response.HandleAppError(c, err)
		}

		return next(c)
	}
}

func (m *AuthMiddleware) resolve(c echo.Context, token string) error {
	ctx := c.Request().Context()

	identity, err := m.authUC.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	c.Set(identityKey, identity)

	if logger := deliverycontext.GetLogger(ctx); logger != nil {
		ctx = deliverycontext.WithLogger(ctx, logger.With(slog.String("user_id", identity.UserID.String())))
		c.SetRequest(c.Request().WithContext(ctx))
	}

	return nil
}

// GetIdentity returns the identity set by Authenticate.
func GetIdentity(c echo.Context) (*entity.Identity, bool) {
	identity, ok := c.Get(identityKey).(*entity.Identity)

	return identity, ok && identity != nil
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}

	return strings.TrimSpace(token), true
}
