package services

import (
	"context"

	"github.com/alumnode/backend/internal/app/models"
	"github.com/alumnode/backend/internal/app/models/dto"
	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/alumnode/backend/internal/pkg/sanitize"
	"github.com/rs/zerolog"
)

// ProfileService serves profile pages and profile updates
type ProfileService struct {
	users       UserStore
	profiles    ProfileStore
	connections *ConnectionService
	sanitizer   *sanitize.Sanitizer
	logger      zerolog.Logger
}

func NewProfileService(users UserStore, profiles ProfileStore, connections *ConnectionService, sanitizer *sanitize.Sanitizer, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		users:       users,
		profiles:    profiles,
		connections: connections,
		sanitizer:   sanitizer,
		logger:      logger,
	}
}

// GetProfile returns the profile of targetID as seen by viewerID. The
// connection status is only filled in for other users' profiles.
func (s *ProfileService) GetProfile(ctx context.Context, viewerID, targetID int64) (*dto.ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("User not found!")
		}
		return nil, err
	}

	profile, err := s.profiles.GetByUserID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	stats, err := s.profiles.Stats(ctx, targetID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProfileResponse{
		User:    user.Public(),
		Profile: profile,
		Stats:   stats,
	}

	if viewerID != targetID {
		resp.ConnectionStatus, err = s.connections.Status(ctx, viewerID, targetID)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// UpdateProfile creates or updates the caller's profile
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, req dto.UpdateProfileRequest) (*models.Profile, error) {
	update := req.ToModel()
	update.Bio = s.sanitizer.Optional(update.Bio)
	update.CurrentCompany = s.sanitizer.Optional(update.CurrentCompany)
	update.CurrentPosition = s.sanitizer.Optional(update.CurrentPosition)

	profile, err := s.profiles.Upsert(ctx, userID, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Msg("Profile updated")
	return profile, nil
}
