package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/kerems/akademix/internal/app/models"
	appRepos "github.com/kerems/akademix/internal/app/repositories"
	"github.com/kerems/akademix/internal/config"
	"github.com/kerems/akademix/internal/db"
	"github.com/kerems/akademix/internal/pkg/apperrors"
	pkgauth "github.com/kerems/akademix/internal/pkg/auth"
)

// CreateDefaultAdmin ensures the configured admin account exists so a fresh
// deployment can log in and build the roster. An already-registered email is
// not an error.
func CreateDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "" {
		lgr.Info().Msg("Admin seed not configured, skipping")
		return nil
	}

	userRepo := appRepos.NewUserRepository(dbPool)

	hashed, err := pkgauth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}

	admin := &appModels.User{
		Email:     cfg.Seed.AdminEmail,
		Password:  hashed,
		FirstName: "Default",
		LastName:  "Admin",
		Role:      appModels.RoleAdmin,
		IsActive:  true,
	}

	err = db.WithTransaction(ctx, dbPool, func(ctx context.Context, tx pgx.Tx) error {
		_, err := userRepo.CreateUser(ctx, tx, admin)
		return err
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyRegistered) {
			lgr.Debug().Str("email", cfg.Seed.AdminEmail).Msg("Default admin already exists")
			return nil
		}
		return err
	}

	lgr.Info().Str("email", cfg.Seed.AdminEmail).Msg("Default admin created")
	return nil
}
