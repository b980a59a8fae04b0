// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"slices"
	"time"

	"foodorder/internal/domain/entity"
	domainerrors "foodorder/internal/domain/errors"
	"foodorder/internal/domain/repository"
	"foodorder/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// userRepository implements the repository.UserRepository interface.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		db: db,
	}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.findOne(repo.db.WithContext(ctx).Where("id = ?", id), "failed to find user by id")
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(repo.db.WithContext(ctx).Where("email = ?", email), "failed to find user by email")
}

// FindByEmailForAuth forces the primary so a replica never serves a stale token_version.
func (repo *userRepository) FindByEmailForAuth(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(
		repo.db.WithContext(ctx).Clauses(dbresolver.Write).Where("email = ?", email),
		"failed to find user for authentication",
	)
}

func (repo *userRepository) findOne(query *gorm.DB, msg string) (*entity.User, error) {
	var userM model.UserModel
	if err := query.First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, msg)
	}

	return toUserDomain(&userM), nil
}

// List returns users ordered by creation time together with the total count.
func (repo *userRepository) List(ctx context.Context, offset, limit int) ([]*entity.User, int64, error) {
	var total int64
	if err := repo.db.WithContext(ctx).Model(&model.UserModel{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count users")
	}

	var userModels []*model.UserModel
	query := repo.db.WithContext(ctx).Order("created_at ASC").Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&userModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(userModels))
	for _, userM := range userModels {
		users = append(users, toUserDomain(userM))
	}

	return users, total, nil
}

// Create persists a new user entity to the database.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return errors.WithStack(domainerrors.ErrUserAlreadyExists)
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// MarkVerified flags the email as verified.
func (repo *userRepository) MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	return repo.update(ctx, id, map[string]any{
		"verified":    true,
		"verified_at": at,
		"updated_at":  at,
	}, "failed to mark user verified")
}

// TouchVerificationSent records when the last verification email was sent.
func (repo *userRepository) TouchVerificationSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return repo.update(ctx, id, map[string]any{
		"verification_sent_at": at,
		"updated_at":           at,
	}, "failed to record verification email")
}

// ChangeRole sets role and restaurant scope and increments token_version in one statement.
func (repo *userRepository) ChangeRole(ctx context.Context, id uuid.UUID, change repository.UserRoleChange) error {
	return repo.update(ctx, id, map[string]any{
		"role":           change.Role.String(),
		"restaurant_ids": datatypes.JSONSlice[string](normalizeRestaurantIDs(change.RestaurantIDs)),
		"token_version":  gorm.Expr("token_version + 1"),
		"updated_at":     time.Now(),
	}, "failed to change user role")
}

// IncrementTokenVersion atomically bumps token_version.
func (repo *userRepository) IncrementTokenVersion(ctx context.Context, id uuid.UUID) error {
	return repo.update(ctx, id, map[string]any{
		"token_version": gorm.Expr("token_version + 1"),
		"updated_at":    time.Now(),
	}, "failed to increment token version")
}

// Disable flags the account and increments token_version in one statement.
func (repo *userRepository) Disable(ctx context.Context, id uuid.UUID) error {
	return repo.update(ctx, id, map[string]any{
		"disabled":      true,
		"token_version": gorm.Expr("token_version + 1"),
		"updated_at":    time.Now(),
	}, "failed to disable user")
}

func (repo *userRepository) update(ctx context.Context, id uuid.UUID, values map[string]any, msg string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, msg)
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// normalizeRestaurantIDs sorts and de-duplicates the scope so stored sets compare equal.
func normalizeRestaurantIDs(ids []string) []string {
	out := slices.Clone(ids)
	slices.Sort(out)

	return slices.Compact(out)
}

// --- Mapper Functions ---

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:                 data.ID,
		Email:              data.Email,
		Name:               data.Name,
		PasswordHash:       data.PasswordHash,
		Role:               entity.Role(data.Role),
		RestaurantIDs:      []string(data.RestaurantIDs),
		TokenVersion:       data.TokenVersion,
		Disabled:           data.Disabled,
		Verified:           data.Verified,
		VerifiedAt:         data.VerifiedAt,
		VerificationSentAt: data.VerificationSentAt,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	role := data.Role
	if role == "" {
		role = entity.RoleUser
	}

	return &model.UserModel{
		ID:                 data.ID,
		Email:              data.Email,
		Name:               data.Name,
		PasswordHash:       data.PasswordHash,
		Role:               role.String(),
		RestaurantIDs:      datatypes.JSONSlice[string](normalizeRestaurantIDs(data.RestaurantIDs)),
		TokenVersion:       data.TokenVersion,
		Disabled:           data.Disabled,
		Verified:           data.Verified,
		VerifiedAt:         data.VerifiedAt,
		VerificationSentAt: data.VerificationSentAt,
	}
}
