// Package seed creates the baseline records a fresh deployment needs:
// a default admin account and an initial school year.
package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/app/repositories"
	"github.com/presentapp/present/internal/pkg/apperrors"
	"github.com/presentapp/present/internal/pkg/auth"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminEmail    = "admin@present.edu"
	defaultAdminPassword = "Admin123!"

	defaultSchoolYear = "2025-2026"
)

// CreateDefaultData makes sure the default admin and an initial school
// year exist. Failures are collected and reported but never abort the
// caller; a partially seeded database is still usable.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)
	catalogRepo := repositories.NewCatalogRepository(dbPool)

	var finalErr error

	if err := seedAdmin(ctx, userRepo, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}
	if err := seedSchoolYear(ctx, catalogRepo, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

func seedAdmin(ctx context.Context, userRepo *repositories.UserRepository, lgr zerolog.Logger) error {
	if _, err := userRepo.GetByLogin(ctx, defaultAdminUsername); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		lgr.Error().Err(err).Msg("Error checking for default admin")
		return err
	}

	hash, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing default admin password")
		return err
	}

	admin := &models.User{
		Username:     defaultAdminUsername,
		Email:        defaultAdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrUserExists) {
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating default admin")
		return err
	}

	lgr.Info().Str("username", defaultAdminUsername).Msg("Default admin user created")
	return nil
}

func seedSchoolYear(ctx context.Context, catalogRepo *repositories.CatalogRepository, lgr zerolog.Logger) error {
	years, err := catalogRepo.ListSchoolYears(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error listing school years during seed")
		return err
	}
	if len(years) > 0 {
		return nil
	}

	year := &models.SchoolYear{Year: defaultSchoolYear}
	if err := catalogRepo.CreateSchoolYear(ctx, year); err != nil {
		lgr.Error().Err(err).Msg("Error creating initial school year")
		return err
	}

	lgr.Info().Str("year", defaultSchoolYear).Msg("Initial school year created")
	return nil
}
