package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/alumnode/backend/internal/app/models"
	"github.com/alumnode/backend/internal/app/models/dto"
	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// AdminLookup finds an admin by username
type AdminLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
}

// AdminCreator creates an admin account
type AdminCreator interface {
	CreateAdmin(ctx context.Context, req dto.AdminCredentialsRequest) (*models.Admin, error)
}

// EnsureAdmin creates the bootstrap admin when credentials are configured and
// no admin with that username exists yet. createAdmin itself requires an
// admin token, so without this the first admin could not be created through
// the API.
func EnsureAdmin(ctx context.Context, lookup AdminLookup, creator AdminCreator, username, password string, lgr zerolog.Logger) error {
	if username == "" || password == "" {
		lgr.Debug().Msg("No seed admin configured, skipping")
		return nil
	}

	_, err := lookup.GetByUsername(ctx, username)
	if err == nil {
		lgr.Debug().Str("username", username).Msg("Seed admin already exists")
		return nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return fmt.Errorf("failed to look up seed admin: %w", err)
	}

	_, err = creator.CreateAdmin(ctx, dto.AdminCredentialsRequest{Username: username, Password: password})
	if err != nil && !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
		return fmt.Errorf("failed to create seed admin: %w", err)
	}

	lgr.Info().Str("username", username).Msg("Seed admin created")
	return nil
}
