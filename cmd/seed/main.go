// Command seed creates or promotes the superadmin account named in the
// bootstrap configuration, then exits.
package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"foodorder/config"
	"foodorder/internal/domain/entity"
	"foodorder/internal/domain/repository"
	"foodorder/internal/domain/service"
	"foodorder/internal/errors"
	"foodorder/internal/infra/auth"
	logs "foodorder/internal/infra/log"
	"foodorder/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

type seedParams struct {
	fx.In
	fx.Shutdowner

	Config   *config.Config
	Logger   *slog.Logger
	UserRepo repository.UserRepository
	Hasher   service.PasswordHasher
}

func main() {
	fx.New(
		fx.NopLogger,
		fx.Provide(
			config.New,
			logs.New,
			postgres.New,
			postgres.NewUserRepository,
			auth.NewBcryptHasher,
		),
		fx.Invoke(run),
	).Run()
}

func run(lc fx.Lifecycle, params seedParams) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()

				exitCode := 0
				if err := seedSuperadmin(ctx, params); err != nil {
					params.Logger.Error("Failed to seed superadmin", slog.Any("error", err))
					exitCode = 1
				}
				_ = params.Shutdown(fx.ExitCode(exitCode))
			}()

			return nil
		},
	})
}

func seedSuperadmin(ctx context.Context, params seedParams) error {
	bootstrap := params.Config.Bootstrap
	if bootstrap == nil || strings.TrimSpace(bootstrap.SuperadminEmail) == "" {
		return errors.New("bootstrap.superadminEmail is not configured")
	}
	email := strings.ToLower(strings.TrimSpace(bootstrap.SuperadminEmail))

	existing, err := params.UserRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == entity.RoleSuperadmin {
			params.Logger.Info("Superadmin already present", slog.String("email", email))

			return nil
		}
		if err := params.UserRepo.ChangeRole(ctx, existing.ID, repository.UserRoleChange{Role: entity.RoleSuperadmin}); err != nil {
			return errors.Wrap(err, "failed to promote existing account")
		}
		params.Logger.Info("Existing account promoted to superadmin", slog.String("email", email))

		return nil
	case !errors.Is(err, repository.ErrUserNotFound):
		return errors.Wrap(err, "failed to look up superadmin")
	}

	if len(bootstrap.SuperadminPassword) < 8 {
		return errors.New("bootstrap.superadminPassword must be at least 8 characters")
	}
	hash, err := params.Hasher.Hash(bootstrap.SuperadminPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash superadmin password")
	}

	name := bootstrap.SuperadminName
	if name == "" {
		name = "Superadmin"
	}
	now := time.Now()
	user := &entity.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         entity.RoleSuperadmin,
		Verified:     true,
		VerifiedAt:   &now,
	}
	if err := params.UserRepo.Create(ctx, user); err != nil {
		return errors.Wrap(err, "failed to create superadmin")
	}

	params.Logger.Info("Superadmin created", slog.String("email", email), slog.String("userID", user.ID.String()))

	return nil
}
