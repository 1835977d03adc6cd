package models

import "time"

// PostType classifies a post
type PostType string

const (
	PostGeneral     PostType = "general"
	PostJob         PostType = "job"
	PostInternship  PostType = "internship"
	PostAchievement PostType = "achievement"
)

// Valid reports whether t is one of the known post types.
func (t PostType) Valid() bool {
	switch t {
	case PostGeneral, PostJob, PostInternship, PostAchievement:
		return true
	}
	return false
}

// HasJobDetails reports whether posts of this type carry a job_posts row.
func (t PostType) HasJobDetails() bool {
	return t == PostJob || t == PostInternship
}

// Post defines the post model based on the 'posts' table
type Post struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	ImageURL  *string   `json:"image_url" db:"image_url"`
	PostType  PostType  `json:"post_type" db:"post_type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	JobDetails *JobDetails `json:"job_details,omitempty"`
}

// JobDetails is the 1:1 extension of a job or internship post ('job_posts')
type JobDetails struct {
	PostID         int64      `json:"post_id" db:"post_id"`
	CompanyName    string     `json:"company_name" db:"company_name"`
	Position       string     `json:"position" db:"position"`
	Location       *string    `json:"location" db:"location"`
	JobType        *string    `json:"job_type" db:"job_type"`
	Description    *string    `json:"description" db:"description"`
	ApplicationURL *string    `json:"application_url" db:"application_url"`
	Deadline       *time.Time `json:"deadline" db:"deadline"`
}

// Author is the public part of a user shown next to posts and comments.
type Author struct {
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	IsAlumni        bool    `json:"is_alumni"`
	ProfilePicture  *string `json:"profile_picture"`
	CurrentPosition *string `json:"current_position"`
	CurrentCompany  *string `json:"current_company"`
}

// PostView is a post as seen by a given viewer.
type PostView struct {
	Post
	Author
	LikeCount    int64         `json:"like_count"`
	CommentCount int64         `json:"comment_count"`
	UserLiked    bool          `json:"user_liked"`
	Comments     []CommentView `json:"comments,omitempty"`
}

// PostFilter selects a page of the feed
type PostFilter struct {
	ViewerID int64
	Type     PostType
	Page     int
	Limit    int
}

// Comment defines the comment model based on the 'comments' table
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CommentView is a comment together with its author's name and picture.
type CommentView struct {
	Comment
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	ProfilePicture *string `json:"profile_picture"`
}

// LikeState is the result of toggling a like.
type LikeState struct {
	LikeCount int64 `json:"like_count"`
	UserLiked bool  `json:"user_liked"`
}
