package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alumnode/backend/internal/app/models"
	"github.com/alumnode/backend/internal/app/models/dto"
	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// AdminService manages admin accounts and their sessions. It shares nothing
// with AuthService except the session algorithm.
type AdminService struct {
	admins   AdminStore
	sessions *SessionService
	hasher   PasswordHasher
	logger   zerolog.Logger
}

func NewAdminService(admins AdminStore, sessions *SessionService, hasher PasswordHasher, logger zerolog.Logger) *AdminService {
	return &AdminService{
		admins:   admins,
		sessions: sessions,
		hasher:   hasher,
		logger:   logger,
	}
}

// CreateAdmin adds a new admin account
func (s *AdminService) CreateAdmin(ctx context.Context, req dto.AdminCredentialsRequest) (*models.Admin, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		Username: strings.TrimSpace(req.Username),
		Password: hash,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", admin.Username).Msg("Admin created")
	return admin, nil
}

// Login verifies admin credentials and issues a token
func (s *AdminService) Login(ctx context.Context, req dto.AdminCredentialsRequest) (*dto.AdminAuthResponse, error) {
	admin, err := s.admins.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Admin Not Found!")
		}
		return nil, err
	}

	if !s.hasher.Check(admin.Password, req.Password) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Password Not Correct!")
	}

	token, err := s.sessions.Issue(ctx, admin.ID)
	if err != nil {
		return nil, err
	}
	return &dto.AdminAuthResponse{Token: token, Admin: admin}, nil
}

func (s *AdminService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// LoadAdmin resolves the principal for the admin guard
func (s *AdminService) LoadAdmin(ctx context.Context, id int64) (interface{}, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Invalid token!")
		}
		return nil, err
	}
	return admin, nil
}
