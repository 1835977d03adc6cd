package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/alumnode/backend/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// SessionService issues, resolves and revokes the bearer tokens of one
// principal kind. A token is valid while its signed claim has not expired and
// its row is still present.
type SessionService struct {
	kind   auth.PrincipalKind
	jwt    *auth.JWTService
	tokens TokenStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewSessionService(kind auth.PrincipalKind, jwt *auth.JWTService, tokens TokenStore, logger zerolog.Logger) *SessionService {
	return &SessionService{
		kind:   kind,
		jwt:    jwt,
		tokens: tokens,
		logger: logger.With().Str("principal", string(kind)).Logger(),
		now:    time.Now,
	}
}

func (s *SessionService) Kind() auth.PrincipalKind {
	return s.kind
}

// Issue signs a token for principalID and stores its row. No token is returned
// unless the row was written.
func (s *SessionService) Issue(ctx context.Context, principalID int64) (string, error) {
	token, _, err := s.jwt.Generate(s.kind, principalID)
	if err != nil {
		return "", err
	}

	if err := s.tokens.Create(ctx, token, principalID); err != nil {
		return "", fmt.Errorf("failed to store %s token: %w", s.kind, err)
	}
	return token, nil
}

// Resolve returns the principal a token belongs to. Any failure is reported
// as apperrors.ErrTokenInvalid except storage faults.
func (s *SessionService) Resolve(ctx context.Context, token string) (int64, error) {
	claims, err := s.jwt.Validate(token, s.kind)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return 0, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Token expired!")
		}
		return 0, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Invalid token!")
	}

	principalID, err := s.tokens.FindPrincipalID(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenInvalid) {
			return 0, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Invalid token!")
		}
		return 0, err
	}

	if principalID != claims.ID {
		s.logger.Warn().Int64("claim", claims.ID).Int64("row", principalID).Msg("Token row and claim disagree")
		return 0, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Invalid token!")
	}
	return principalID, nil
}

// Revoke deletes the token row. Revoking an unknown token succeeds.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	return s.tokens.Delete(ctx, token)
}

// PurgeExpired drops rows whose claims have expired. Those tokens are already
// rejected by Resolve, so purging never changes which tokens are valid.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.jwt.TokenTTL())
	n, err := s.tokens.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info().Int64("deleted", n).Msg("Purged expired tokens")
	}
	return n, nil
}
