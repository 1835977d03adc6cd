package dto

import "github.com/alumnode/backend/internal/app/models"

// CreatePostRequest represents a new post. The job fields are only read for
// job and internship posts.
type CreatePostRequest struct {
	Content        string  `json:"content" binding:"required" example:"We are hiring!"`
	ImageURL       *string `json:"image_url" binding:"omitempty,url" example:"https://cdn.example.com/p.png"`
	PostType       string  `json:"post_type" example:"job"`
	CompanyName    string  `json:"company_name" example:"Acme"`
	Position       string  `json:"position" example:"Backend Engineer"`
	Location       *string `json:"location" example:"Bengaluru"`
	JobType        *string `json:"job_type" example:"full-time"`
	Description    *string `json:"description"`
	ApplicationURL *string `json:"application_url" binding:"omitempty,url"`
	Deadline       *string `json:"deadline" example:"2025-12-31"`
}

// UpdatePostRequest changes the content and/or image of a post
type UpdatePostRequest struct {
	Content  *string `json:"content" binding:"omitempty,min=1"`
	ImageURL *string `json:"image_url" binding:"omitempty,url"`
}

// CommentRequest represents a new comment
type CommentRequest struct {
	Content string `json:"content" binding:"required" example:"Congrats!"`
}

// PostListQuery holds the feed query parameters
type PostListQuery struct {
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
	Type  string `form:"type"`
}

// PaginationInfo describes the returned page
type PaginationInfo struct {
	Total      int64 `json:"total" example:"42"`
	Page       int   `json:"page" example:"1"`
	Limit      int   `json:"limit" example:"10"`
	TotalPages int   `json:"total_pages" example:"5"`
	HasMore    bool  `json:"has_more" example:"true"`
}

// PostListResponse is one page of the feed
type PostListResponse struct {
	Posts      []models.PostView `json:"posts"`
	Pagination PaginationInfo    `json:"pagination"`
}
