package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction names a privileged mutation.
type AuditAction string

const (
	AuditActionCreateRestaurant   AuditAction = "create_restaurant"
	AuditActionUpdateRestaurant   AuditAction = "update_restaurant"
	AuditActionApproveRestaurant  AuditAction = "approve_restaurant"
	AuditActionDisableRestaurant  AuditAction = "disable_restaurant"
	AuditActionCreateMenuItem     AuditAction = "create_menu_item"
	AuditActionUpdateMenuItem     AuditAction = "update_menu_item"
	AuditActionDeleteMenuItem     AuditAction = "delete_menu_item"
	AuditActionUpdateOrderStatus  AuditAction = "update_order_status"
	AuditActionCancelOrder        AuditAction = "cancel_order"
	AuditActionPromoteUser        AuditAction = "promote_user"
	AuditActionChangeRole         AuditAction = "change_role"
	AuditActionRevokeTokens       AuditAction = "revoke_tokens"
	AuditActionDisableUser        AuditAction = "disable_user"
)

// Audit resource types.
const (
	AuditResourceRestaurant = "restaurant"
	AuditResourceMenuItem   = "menu_item"
	AuditResourceOrder      = "order"
	AuditResourceUser       = "user"
)

// AuditEntry is an immutable record of a privileged mutation.
type AuditEntry struct {
	ID           uuid.UUID
	ActorEmail   string
	Action       AuditAction
	ResourceType string
	ResourceID   string
	Before       map[string]any
	After        map[string]any
	Reason       string
	CreatedAt    time.Time
}

// NewAuditEntry fills the common fields of an audit entry.
func NewAuditEntry(actor *Identity, action AuditAction, resourceType, resourceID string, before, after map[string]any, reason string) *AuditEntry {
	entry := &AuditEntry{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Before:       before,
		After:        after,
		Reason:       reason,
	}
	if actor != nil {
		entry.ActorEmail = actor.Email
	}

	return entry
}
