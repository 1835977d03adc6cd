package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	FirstName    string    `json:"first_name" db:"first_name" example:"Asha"`
	LastName     string    `json:"last_name" db:"last_name" example:"Rao"`
	MobileNumber string    `json:"mobile_number" db:"mobile_number" example:"9876543210"`
	Email        string    `json:"email" db:"email" example:"a@x.com"`
	CollegeEmail string    `json:"college_email" db:"college_email" example:"asha@college.edu"`
	IsAlumni     bool      `json:"is_alumni" db:"is_alumni" example:"false"`
	Password     string    `json:"-" db:"password"` // bcrypt hash, never serialized
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// PublicUser is the part of a user shown on profile pages.
type PublicUser struct {
	ID           int64     `json:"id" example:"1"`
	FirstName    string    `json:"first_name" example:"Asha"`
	LastName     string    `json:"last_name" example:"Rao"`
	Email        string    `json:"email" example:"a@x.com"`
	CollegeEmail string    `json:"college_email" example:"asha@college.edu"`
	IsAlumni     bool      `json:"is_alumni" example:"false"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public drops the mobile number and password hash.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		CollegeEmail: u.CollegeEmail,
		IsAlumni:     u.IsAlumni,
		CreatedAt:    u.CreatedAt,
	}
}

// Admin defines the admin model based on the 'admins' table
type Admin struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Username  string    `json:"username" db:"username" example:"root"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
