// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"foodorder/internal/domain/entity"
)

// --- Input DTOs ---

// SignupInput defines the data required to open an account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// LoginOutput carries the session token issued at login.
type LoginOutput struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	User        *entity.User
}

// AuthUsecase covers account creation, email verification, login and the
// per-request session check.
type AuthUsecase interface {
	Signup(ctx context.Context, input SignupInput) (*entity.User, error)
	VerifyEmail(ctx context.Context, token string) (*entity.User, error)
	// ResendVerification answers unknown emails exactly like known ones.
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// Authenticate resolves a session token to the caller's identity,
	// checking the live user record for existence, status and token_version.
	Authenticate(ctx context.Context, token string) (*entity.Identity, error)
	Me(ctx context.Context, identity *entity.Identity) (*entity.User, error)
}
