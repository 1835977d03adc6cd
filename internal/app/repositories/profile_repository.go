package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/alumnode/backend/internal/app/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileColumns = `user_id, bio, graduation_year, current_company, current_position,
	profile_picture, linkedin_url, github_url, created_at, updated_at`

// ProfileRepository handles the profiles table and profile statistics
type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(&p.UserID, &p.Bio, &p.GraduationYear, &p.CurrentCompany, &p.CurrentPosition,
		&p.ProfilePicture, &p.LinkedinURL, &p.GithubURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByUserID returns the profile of userID, or nil when none has been created yet.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}
	return p, nil
}

// Upsert creates the profile on first use; afterwards nil fields keep their value.
func (r *ProfileRepository) Upsert(ctx context.Context, userID int64, u models.ProfileUpdate) (*models.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `
		INSERT INTO profiles (user_id, bio, graduation_year, current_company, current_position,
			profile_picture, linkedin_url, github_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			bio = COALESCE(EXCLUDED.bio, profiles.bio),
			graduation_year = COALESCE(EXCLUDED.graduation_year, profiles.graduation_year),
			current_company = COALESCE(EXCLUDED.current_company, profiles.current_company),
			current_position = COALESCE(EXCLUDED.current_position, profiles.current_position),
			profile_picture = COALESCE(EXCLUDED.profile_picture, profiles.profile_picture),
			linkedin_url = COALESCE(EXCLUDED.linkedin_url, profiles.linkedin_url),
			github_url = COALESCE(EXCLUDED.github_url, profiles.github_url),
			updated_at = NOW()
		RETURNING `+profileColumns,
		userID, u.Bio, u.GraduationYear, u.CurrentCompany, u.CurrentPosition,
		u.ProfilePicture, u.LinkedinURL, u.GithubURL))
	if err != nil {
		return nil, fmt.Errorf("error saving profile: %w", err)
	}
	return p, nil
}

// Stats counts the posts and accepted connections of userID
func (r *ProfileRepository) Stats(ctx context.Context, userID int64) (models.ProfileStats, error) {
	var stats models.ProfileStats
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM posts WHERE user_id = $1),
			(SELECT COUNT(*) FROM connections
				WHERE (requester_id = $1 OR addressee_id = $1) AND status = 'accepted')`,
		userID).Scan(&stats.Posts, &stats.Connections)
	if err != nil {
		return stats, fmt.Errorf("error counting profile stats: %w", err)
	}
	return stats, nil
}
