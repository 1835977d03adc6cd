package models

import "time"

// Profile is the optional 1:1 extension of a User, created on first update.
type Profile struct {
	UserID          int64     `json:"user_id" db:"user_id"`
	Bio             *string   `json:"bio" db:"bio"`
	GraduationYear  *int      `json:"graduation_year" db:"graduation_year"`
	CurrentCompany  *string   `json:"current_company" db:"current_company"`
	CurrentPosition *string   `json:"current_position" db:"current_position"`
	ProfilePicture  *string   `json:"profile_picture" db:"profile_picture"`
	LinkedinURL     *string   `json:"linkedin_url" db:"linkedin_url"`
	GithubURL       *string   `json:"github_url" db:"github_url"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileUpdate carries the fields of a profile update. Nil fields keep their
// stored value.
type ProfileUpdate struct {
	Bio             *string
	GraduationYear  *int
	CurrentCompany  *string
	CurrentPosition *string
	ProfilePicture  *string
	LinkedinURL     *string
	GithubURL       *string
}

// ProfileStats counts a user's posts and accepted connections.
type ProfileStats struct {
	Posts       int64 `json:"posts"`
	Connections int64 `json:"connections"`
}
