package auth

import (
	"testing"
	"time"

	"foodorder/config"
	"foodorder/internal/domain/entity"
	domainerrors "foodorder/internal/domain/errors"
	"foodorder/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Session = "test_session_secret_key_very_long_for_testing"
	cfg.SecretKey.Verification = "test_verification_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTService_IssueAndParseSession(t *testing.T) {
	svc, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	restaurantID := uuid.NewString()
	user := &entity.User{
		ID:            uuid.New(),
		Email:         "chef@example.com",
		Role:          entity.RoleRestaurantAdmin,
		RestaurantIDs: []string{restaurantID},
		TokenVersion:  3,
	}

	token, expiresAt, err := svc.IssueSession(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ParseSession(token)
	require.NoError(t, err)
	assert.Equal(t, "chef@example.com", claims.Subject)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "restaurant_admin", claims.Role)
	assert.Equal(t, []string{restaurantID}, claims.RestaurantIDs)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, service.TokenTypeSession, claims.Type)
}

func TestJWTService_ExpiredSession(t *testing.T) {
	issuedAt := time.Now().Add(-time.Hour)
	clock := issuedAt
	svc, err := newJWTService(newTestConfig(), func() time.Time { return clock })
	require.NoError(t, err)

	token, _, err := svc.IssueSession(&entity.User{ID: uuid.New(), Email: "a@example.com", Role: entity.RoleUser})
	require.NoError(t, err)

	clock = issuedAt.Add(16 * time.Minute)
	_, err = svc.ParseSession(token)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenExpired), "got %v", err)
}

func TestJWTService_InvalidSession(t *testing.T) {
	svc, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	_, err = svc.ParseSession("clearly-not-a-jwt-token-format")
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &service.SessionClaims{
		Type: service.TokenTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = svc.ParseSession(forged)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, invalidTokenDetails, appErr.Details())
	assert.NotContains(t, err.Error(), "signature is invalid")
}

func TestJWTService_SessionWithoutExpiryIsRejected(t *testing.T) {
	cfg := newTestConfig()
	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &service.SessionClaims{
		Type:             service.TokenTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a@example.com"},
	}).SignedString([]byte(cfg.SecretKey.Session))
	require.NoError(t, err)

	_, err = svc.ParseSession(token)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestJWTService_VerificationRoundTrip(t *testing.T) {
	svc, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	token, err := svc.IssueVerification("new@example.com")
	require.NoError(t, err)

	email, err := svc.ParseVerification(token)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", email)
}

func TestJWTService_TokenKindsAreNotInterchangeable(t *testing.T) {
	svc, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	verification, err := svc.IssueVerification("new@example.com")
	require.NoError(t, err)
	_, err = svc.ParseSession(verification)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))

	session, _, err := svc.IssueSession(&entity.User{ID: uuid.New(), Email: "new@example.com", Role: entity.RoleUser})
	require.NoError(t, err)
	_, err = svc.ParseVerification(session)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestJWTService_SecretsValidation(t *testing.T) {
	svc, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "jwt secrets must be provided")

	cfg := newTestConfig()
	cfg.SecretKey.Verification = cfg.SecretKey.Session
	_, err = NewJWTService(cfg)
	assert.Error(t, err)
}
