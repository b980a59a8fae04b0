package impl

import (
	"context"

	"foodorder/internal/domain/entity"
	"foodorder/internal/domain/policy"
	"foodorder/internal/domain/repository"
	"foodorder/internal/usecase"

	"github.com/pkg/errors"
)

// auditService implements the AuditUsecase interface.
type auditService struct {
	auditRepo repository.AuditRepository
}

// NewAuditService is the constructor for auditService.
func NewAuditService(auditRepo repository.AuditRepository) usecase.AuditUsecase {
	return &auditService{auditRepo: auditRepo}
}

// List returns the newest audit entries first. Superadmin only.
func (srv *auditService) List(ctx context.Context, identity *entity.Identity, offset, limit int) (*usecase.AuditPage, error) {
	if err := policy.RequireRole(identity, entity.RoleSuperadmin); err != nil {
		return nil, err
	}
	offset, limit = normalizePage(offset, limit)

	entries, total, err := srv.auditRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list audit entries")
	}

	return &usecase.AuditPage{Entries: entries, Total: total}, nil
}
