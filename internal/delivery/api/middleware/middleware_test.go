package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"foodorder/config"
	"foodorder/internal/delivery/api/response"
	"foodorder/internal/domain/entity"
	domainerrors "foodorder/internal/domain/errors"
	"foodorder/internal/domain/service"
	"foodorder/internal/errors"
	"foodorder/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockAuthUsecase struct {
	mock.Mock
	usecase.AuthUsecase
}

func (m *MockAuthUsecase) Authenticate(ctx context.Context, token string) (*entity.Identity, error) {
	args := m.Called(ctx, token)
	identity, _ := args.Get(0).(*entity.Identity)

	return identity, args.Error(1)
}

type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)

	return args.Bool(0), args.Error(1)
}

func (m *MockRateLimiter) Close() error { return nil }

type MockTokenService struct {
	mock.Mock
	service.TokenService
}

func (m *MockTokenService) ParseSession(token string) (*service.SessionClaims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*service.SessionClaims)

	return claims, args.Error(1)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorMiddleware(newDiscardLogger()).HandleHTTPError

	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *response.ErrorInfo {
	t.Helper()

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)

	return body.Error
}

func TestErrorMiddleware_HandleHTTPError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantDetails any
	}{
		{
			name:        "client app error keeps details",
			err:         errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("name is required")),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALIDATION_FAILED",
			wantDetails: "name is required",
		},
		{
			name:       "server app error hides details",
			err:        domainerrors.ErrTransactionFailed.WithDetails("deadlock detected"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "TRANSACTION_FAILED",
		},
		{
			name:       "echo http error",
			err:        echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"),
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "HTTP_ERROR",
		},
		{
			name:       "unknown error is generic",
			err:        errors.New("pq: relation \"orders\" does not exist"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			e.GET("/", func(echo.Context) error { return tt.err })

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			info := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.Equal(t, tt.wantDetails, info.Details)
			assert.NotContains(t, rec.Body.String(), "relation")
			assert.NotContains(t, rec.Body.String(), "deadlock")
		})
	}
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	identity := &entity.Identity{UserID: uuid.New(), Email: "a@example.com", Role: entity.RoleUser}

	authUC := new(MockAuthUsecase)
	authUC.On("Authenticate", mock.Anything, "good").Return(identity, nil)
	authUC.On("Authenticate", mock.Anything, "stale").Return(nil, errors.WithStack(domainerrors.ErrTokenRevoked))

	e := newTestEcho()
	m := NewAuthMiddleware(authUC)
	e.GET("/me", func(c echo.Context) error {
		got, ok := GetIdentity(c)
		require.True(t, ok)

		return c.String(http.StatusOK, got.Email)
	}, m.Authenticate)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"revoked token", "Bearer stale", http.StatusUnauthorized, "TOKEN_REVOKED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}

	t.Run("valid token sets identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "bearer good")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "a@example.com", rec.Body.String())
	})
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	authUC := new(MockAuthUsecase)
	authUC.On("Authenticate", mock.Anything, "broken").Return(nil, errors.WithStack(domainerrors.ErrInvalidToken))

	e := newTestEcho()
	m := NewAuthMiddleware(authUC)
	e.GET("/restaurants", func(c echo.Context) error {
		_, ok := GetIdentity(c)

		return c.JSON(http.StatusOK, map[string]bool{"signed_in": ok})
	}, m.OptionalAuthenticate)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/restaurants", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"signed_in":false}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/restaurants", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer broken")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func newRateLimitEcho(limiter service.RateLimiter, tokens service.TokenService) *echo.Echo {
	cfg := &config.Config{RateLimit: &config.RateLimitConfig{ExcludePaths: []string{"/health"}}}
	m := NewRateLimitMiddleware(RateLimitParams{
		Limiter:      limiter,
		TokenService: tokens,
		Config:       cfg,
		Logger:       newDiscardLogger(),
	})

	e := newTestEcho()
	e.Use(m.Handle)
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/health", ok)
	e.GET("/orders", ok)

	return e
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("exceeded limit answers 429", func(t *testing.T) {
		limiter := new(MockRateLimiter)
		limiter.On("Allow", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "ip:")
		})).Return(false, nil)
		e := newRateLimitEcho(limiter, new(MockTokenService))

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "RATE_LIMITED", decodeError(t, rec).Code)
	})

	t.Run("session subject is the key", func(t *testing.T) {
		limiter := new(MockRateLimiter)
		limiter.On("Allow", mock.Anything, "user:a@example.com").Return(true, nil).Once()
		claims := &service.SessionClaims{}
		claims.Subject = "a@example.com"
		tokens := new(MockTokenService)
		tokens.On("ParseSession", "tok").Return(claims, nil)
		e := newRateLimitEcho(limiter, tokens)

		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer tok")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		limiter.AssertExpectations(t)
	})

	t.Run("limiter failure fails open", func(t *testing.T) {
		limiter := new(MockRateLimiter)
		limiter.On("Allow", mock.Anything, mock.Anything).Return(true, errors.New("dial tcp: connection refused"))
		e := newRateLimitEcho(limiter, new(MockTokenService))

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("excluded path is not counted", func(t *testing.T) {
		limiter := new(MockRateLimiter)
		e := newRateLimitEcho(limiter, new(MockTokenService))

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		limiter.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything)
	})
}
