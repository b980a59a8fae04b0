package service

import (
	"time"

	"foodorder/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
)

// Token type and purpose claims. The two token kinds are signed with
// different secrets and are never interchangeable.
const (
	TokenTypeSession         = "session"
	PurposeEmailVerification = "email_verification"
)

// SessionClaims are the claims of a session token. Subject is the user's email.
type SessionClaims struct {
	UserID        string   `json:"uid"`
	Role          string   `json:"role"`
	RestaurantIDs []string `json:"restaurant_ids"`
	TokenVersion  int      `json:"token_version"`
	Type          string   `json:"typ"`
	jwt.RegisteredClaims
}

// VerificationClaims are the claims of an email verification token.
type VerificationClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenService issues and validates signed tokens.
type TokenService interface {
	// IssueSession signs a session token for the user.
	IssueSession(user *entity.User) (token string, expiresAt time.Time, err error)

	// ParseSession verifies signature, type and expiry. It returns
	// ErrInvalidToken or ErrTokenExpired on failure.
	ParseSession(token string) (*SessionClaims, error)

	// IssueVerification signs an email verification token for the address.
	IssueVerification(email string) (string, error)

	// ParseVerification verifies signature, purpose and expiry and returns the email.
	ParseVerification(token string) (string, error)
}
