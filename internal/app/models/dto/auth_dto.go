package dto

import "github.com/alumnode/backend/internal/app/models"

// SignupRequest represents user registration data
type SignupRequest struct {
	FirstName    string `json:"first_name" binding:"required,max=100" example:"Asha"`
	LastName     string `json:"last_name" binding:"required,max=100" example:"Rao"`
	MobileNumber string `json:"mobile_number" binding:"required,mobile" example:"9876543210"`
	Email        string `json:"email" binding:"required,email" example:"a@x.com"`
	CollegeEmail string `json:"college_email" binding:"required,email" example:"asha@college.edu"`
	Password     string `json:"password" binding:"required,min=6" example:"pw123456"`
	IsAlumni     bool   `json:"is_alumni" example:"false"`
}

// LoginRequest represents user login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"a@x.com"`
	Password string `json:"password" binding:"required" example:"pw123456"`
}

// AdminCredentialsRequest is used both to create an admin and to log in as one
type AdminCredentialsRequest struct {
	Username string `json:"username" binding:"required,max=100" example:"root"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

// UserAuthResponse is returned by signup and login
type UserAuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AdminAuthResponse is returned by admin login
type AdminAuthResponse struct {
	Token string        `json:"token"`
	Admin *models.Admin `json:"admin"`
}
