package dto

import "github.com/alumnode/backend/internal/app/models"

// UpdateProfileRequest represents a profile update. Omitted fields keep their
// current value.
type UpdateProfileRequest struct {
	Bio             *string `json:"bio" binding:"omitempty,max=2000"`
	GraduationYear  *int    `json:"graduation_year" binding:"omitempty,min=1900,max=2100" example:"2022"`
	CurrentCompany  *string `json:"current_company" binding:"omitempty,max=255"`
	CurrentPosition *string `json:"current_position" binding:"omitempty,max=255"`
	ProfilePicture  *string `json:"profile_picture" binding:"omitempty,url"`
	LinkedinURL     *string `json:"linkedin_url" binding:"omitempty,url"`
	GithubURL       *string `json:"github_url" binding:"omitempty,url"`
}

// ToModel converts the request to a repository update
func (r UpdateProfileRequest) ToModel() models.ProfileUpdate {
	return models.ProfileUpdate{
		Bio:             r.Bio,
		GraduationYear:  r.GraduationYear,
		CurrentCompany:  r.CurrentCompany,
		CurrentPosition: r.CurrentPosition,
		ProfilePicture:  r.ProfilePicture,
		LinkedinURL:     r.LinkedinURL,
		GithubURL:       r.GithubURL,
	}
}

// ProfileResponse is a user's profile page
type ProfileResponse struct {
	User             *models.PublicUser       `json:"user"`
	Profile          *models.Profile          `json:"profile"`
	Stats            models.ProfileStats      `json:"stats"`
	ConnectionStatus *models.ConnectionStatus `json:"connection_status"`
}

// RespondConnectionRequest answers a pending connection request
type RespondConnectionRequest struct {
	Action string `json:"action" example:"accept" enums:"accept,reject"`
}
