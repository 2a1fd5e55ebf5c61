package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/oguzhan/projecthub/internal/app/models"
	"github.com/oguzhan/projecthub/internal/app/repositories"
	"github.com/oguzhan/projecthub/internal/config"
	"github.com/oguzhan/projecthub/internal/pkg/apperrors"
	"github.com/oguzhan/projecthub/internal/pkg/auth"
)

// CreateDefaultData seeds the default admin account so the portal is
// operable on a fresh database. Students and mentors are created by the
// admin afterwards.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)

	_, err := userRepo.GetUserByEmail(ctx, cfg.Auth.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		lgr.Error().Err(err).Msg("Error checking for default admin account")
		return err
	}

	adminPassword := cfg.Auth.AdminPassword
	if adminPassword == "" {
		adminPassword = cfg.Auth.DefaultPassword
		lgr.Warn().Msg("No admin password configured, falling back to the default password")
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing default admin password")
		return err
	}

	lgr.Info().Str("email", cfg.Auth.AdminEmail).Msg("Creating default admin account")
	_, err = userRepo.CreateUserTx(ctx, dbPool, &models.User{
		Email:    cfg.Auth.AdminEmail,
		Password: hash,
		FullName: "Portal Admin",
		RoleType: models.RoleAdmin,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default admin account")
		return err
	}

	return nil
}
