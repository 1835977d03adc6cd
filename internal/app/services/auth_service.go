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

// AuthService handles user signup, login and logout
type AuthService struct {
	users    UserStore
	sessions *SessionService
	hasher   PasswordHasher
	logger   zerolog.Logger
}

func NewAuthService(users UserStore, sessions *SessionService, hasher PasswordHasher, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		logger:   logger,
	}
}

// Signup registers a user and logs them in
func (s *AuthService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.UserAuthResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		MobileNumber: strings.TrimSpace(req.MobileNumber),
		Email:        normalizeEmail(req.Email),
		CollegeEmail: normalizeEmail(req.CollegeEmail),
		IsAlumni:     req.IsAlumni,
		Password:     hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			s.logger.Info().Str("email", user.Email).Msg("Signup rejected, user already exists")
		}
		return nil, err
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User signed up")
	return &dto.UserAuthResponse{Token: token, User: user}, nil
}

// Login verifies credentials and issues a fresh token
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.UserAuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError(
				"The provided email does not match any existing user account. Please verify your credentials or consider signing up if you do not have an account.")
		}
		return nil, err
	}

	if !s.hasher.Check(user.Password, req.Password) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials,
			"Please ensure you've entered the correct password and try again.")
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.UserAuthResponse{Token: token, User: user}, nil
}

// Logout revokes the token the request was authenticated with
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// LoadUser resolves the principal for the user guard
func (s *AuthService) LoadUser(ctx context.Context, id int64) (interface{}, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Invalid token!")
		}
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
