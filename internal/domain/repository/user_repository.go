// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"foodorder/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRoleChange is applied together with a token_version increment.
type UserRoleChange struct {
	Role          entity.Role
	RestaurantIDs []string
}

// UserRepository defines the standard operations for user persistence.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByEmailForAuth reads from the primary so a just-bumped token_version is never missed.
	FindByEmailForAuth(ctx context.Context, email string) (*entity.User, error)

	// List returns users ordered by creation time together with the total count.
	List(ctx context.Context, offset, limit int) ([]*entity.User, int64, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// MarkVerified flags the email as verified.
	MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error

	// TouchVerificationSent records when the last verification email was sent.
	TouchVerificationSent(ctx context.Context, id uuid.UUID, at time.Time) error

	// ChangeRole sets role and restaurant scope and increments token_version in one statement.
	ChangeRole(ctx context.Context, id uuid.UUID, change UserRoleChange) error

	// IncrementTokenVersion atomically bumps token_version.
	IncrementTokenVersion(ctx context.Context, id uuid.UUID) error

	// Disable flags the account and increments token_version in one statement.
	Disable(ctx context.Context, id uuid.UUID) error
}
