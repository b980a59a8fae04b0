package usecase

import (
	"context"

	"foodorder/internal/domain/entity"
)

// PromoteUserInput makes an existing user a restaurant admin.
type PromoteUserInput struct {
	Email         string
	RestaurantIDs []string
}

// ChangeRoleInput replaces a user's role and restaurant scope.
type ChangeRoleInput struct {
	Role          entity.Role
	RestaurantIDs []string
	Reason        string
}

// UserPage is one page of users and the total count.
type UserPage struct {
	Users []*entity.User
	Total int64
}

// AuditPage is one page of audit entries and the total count.
type AuditPage struct {
	Entries []*entity.AuditEntry
	Total   int64
}

// AdminUsecase defines superadmin-only user management. Every mutation
// revokes the target's sessions and is audited.
type AdminUsecase interface {
	ListUsers(ctx context.Context, identity *entity.Identity, offset, limit int) (*UserPage, error)
	GetUser(ctx context.Context, identity *entity.Identity, userID string) (*entity.User, error)
	PromoteToRestaurantAdmin(ctx context.Context, identity *entity.Identity, input PromoteUserInput) (*entity.User, error)
	ChangeRole(ctx context.Context, identity *entity.Identity, userID string, input ChangeRoleInput) (*entity.User, error)
	RevokeTokens(ctx context.Context, identity *entity.Identity, userID, reason string) (*entity.User, error)
	DisableUser(ctx context.Context, identity *entity.Identity, userID, reason string) (*entity.User, error)
}

// AuditUsecase reads the global audit log.
type AuditUsecase interface {
	List(ctx context.Context, identity *entity.Identity, offset, limit int) (*AuditPage, error)
}
