package postgres

import (
	"context"
	"encoding/json"

	"foodorder/internal/domain/entity"
	domainerrors "foodorder/internal/domain/errors"
	"foodorder/internal/domain/repository"
	"foodorder/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// auditRepository only inserts and reads; entries are never changed.
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository is the constructor for auditRepository.
func NewAuditRepository(db *gorm.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (repo *auditRepository) Create(ctx context.Context, entry *entity.AuditEntry) error {
	entryM, err := fromAuditDomain(entry)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(entryM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to write audit entry")
	}

	entry.ID = entryM.ID
	entry.CreatedAt = entryM.CreatedAt

	return nil
}

// List returns a newest-first page and the total count.
func (repo *auditRepository) List(ctx context.Context, offset, limit int) ([]*entity.AuditEntry, int64, error) {
	var total int64
	if err := repo.db.WithContext(ctx).Model(&model.AuditEntryModel{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count audit entries")
	}

	query := repo.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var entryModels []*model.AuditEntryModel
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list audit entries")
	}

	entries := make([]*entity.AuditEntry, 0, len(entryModels))
	for _, entryM := range entryModels {
		entry, err := toAuditDomain(entryM)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}

	return entries, total, nil
}

// --- Mapper Functions ---

func toAuditDomain(data *model.AuditEntryModel) (*entity.AuditEntry, error) {
	before, err := decodeSnapshot(data.Before)
	if err != nil {
		return nil, err
	}
	after, err := decodeSnapshot(data.After)
	if err != nil {
		return nil, err
	}

	return &entity.AuditEntry{
		ID:           data.ID,
		ActorEmail:   data.ActorEmail,
		Action:       entity.AuditAction(data.Action),
		ResourceType: data.ResourceType,
		ResourceID:   data.ResourceID,
		Before:       before,
		After:        after,
		Reason:       data.Reason,
		CreatedAt:    data.CreatedAt,
	}, nil
}

func fromAuditDomain(data *entity.AuditEntry) (*model.AuditEntryModel, error) {
	before, err := encodeSnapshot(data.Before)
	if err != nil {
		return nil, err
	}
	after, err := encodeSnapshot(data.After)
	if err != nil {
		return nil, err
	}

	return &model.AuditEntryModel{
		ID:           data.ID,
		ActorEmail:   data.ActorEmail,
		Action:       string(data.Action),
		ResourceType: data.ResourceType,
		ResourceID:   data.ResourceID,
		Before:       before,
		After:        after,
		Reason:       data.Reason,
	}, nil
}

func encodeSnapshot(snapshot map[string]any) (datatypes.JSON, error) {
	if snapshot == nil {
		return nil, nil
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode audit snapshot")
	}

	return datatypes.JSON(raw), nil
}

func decodeSnapshot(raw datatypes.JSON) (map[string]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var snapshot map[string]any
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, errors.Wrap(err, "failed to decode audit snapshot")
	}

	return snapshot, nil
}
