// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"foodorder/config"
	"foodorder/internal/domain/entity"
	domainerrors "foodorder/internal/domain/errors"
	"foodorder/internal/domain/service"
	"foodorder/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

const invalidTokenDetails = "token is malformed or its signature does not verify"

// jwtService signs session and verification tokens with two independent secrets.
type jwtService struct {
	sessionSecret      []byte
	verificationSecret []byte
	sessionTTL         time.Duration
	verificationTTL    time.Duration
	now                func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	svc, err := newJWTService(cfg, time.Now)
	if err != nil {
		return nil, err
	}

	return svc, nil
}

func newJWTService(cfg *config.Config, now func() time.Time) (*jwtService, error) {
	if cfg.SecretKey.Session == "" || cfg.SecretKey.Verification == "" {
		return nil, errors.New("jwt secrets must be provided")
	}
	if cfg.SecretKey.Session == cfg.SecretKey.Verification {
		return nil, errors.New("session and verification secrets must differ")
	}

	sessionTTL, verificationTTL := 15*time.Minute, 15*time.Minute
	if cfg.Auth != nil {
		if cfg.Auth.SessionTTL > 0 {
			sessionTTL = cfg.Auth.SessionTTL
		}
		if cfg.Auth.VerificationTTL > 0 {
			verificationTTL = cfg.Auth.VerificationTTL
		}
	}

	return &jwtService{
		sessionSecret:      []byte(cfg.SecretKey.Session),
		verificationSecret: []byte(cfg.SecretKey.Verification),
		sessionTTL:         sessionTTL,
		verificationTTL:    verificationTTL,
		now:                now,
	}, nil
}

// IssueSession signs a session token embedding the user's role, scope and token version.
func (s *jwtService) IssueSession(user *entity.User) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.sessionTTL)

	restaurantIDs := user.RestaurantIDs
	if restaurantIDs == nil {
		restaurantIDs = []string{}
	}

	claims := &service.SessionClaims{
		UserID:        user.ID.String(),
		Role:          user.Role.String(),
		RestaurantIDs: restaurantIDs,
		TokenVersion:  user.TokenVersion,
		Type:          service.TokenTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.sessionSecret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "failed to sign session token")
	}

	return token, expiresAt, nil
}

// ParseSession validates a session token.
func (s *jwtService) ParseSession(tokenString string) (*service.SessionClaims, error) {
	claims := &service.SessionClaims{}
	if err := s.parse(tokenString, claims, s.sessionSecret); err != nil {
		return nil, err
	}
	if claims.Type != service.TokenTypeSession || claims.Subject == "" {
		return nil, errors.WithStack(domainerrors.ErrInvalidToken)
	}

	return claims, nil
}

// IssueVerification signs an email verification token.
func (s *jwtService) IssueVerification(email string) (string, error) {
	issuedAt := s.now()
	claims := &service.VerificationClaims{
		Purpose: service.PurposeEmailVerification,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.verificationTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.verificationSecret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign verification token")
	}

	return token, nil
}

// ParseVerification validates a verification token and returns its email.
func (s *jwtService) ParseVerification(tokenString string) (string, error) {
	claims := &service.VerificationClaims{}
	if err := s.parse(tokenString, claims, s.verificationSecret); err != nil {
		return "", err
	}
	if claims.Purpose != service.PurposeEmailVerification || claims.Subject == "" {
		return "", errors.WithStack(domainerrors.ErrInvalidToken)
	}

	return claims.Subject, nil
}

func (s *jwtService) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err == nil {
		return nil
	}
	if errors.Is(err, jwt.ErrTokenExpired) {
		return errors.WithStack(domainerrors.ErrTokenExpired)
	}

	return errors.WithStack(domainerrors.ErrInvalidToken.WithDetails(invalidTokenDetails))
}
