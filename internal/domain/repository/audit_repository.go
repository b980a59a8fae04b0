package repository

import (
	"context"

	"foodorder/internal/domain/entity"
)

// AuditRepository is append-only: entries are never updated or deleted.
type AuditRepository interface {
	Create(ctx context.Context, entry *entity.AuditEntry) error

	// List returns a newest-first page and the total count.
	List(ctx context.Context, offset, limit int) ([]*entity.AuditEntry, int64, error)
}
