package services

import (
	"context"
	"strings"
	"time"

	"github.com/alumnode/backend/internal/app/models"
	"github.com/alumnode/backend/internal/app/models/dto"
	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/alumnode/backend/internal/pkg/helpers"
	"github.com/alumnode/backend/internal/pkg/sanitize"
	"github.com/rs/zerolog"
)

const msgJobFieldsRequired = "Company name and position are required for job/internship posts!"

// PostService handles the feed, likes and comments
type PostService struct {
	posts     PostStore
	comments  CommentStore
	sanitizer *sanitize.Sanitizer
	logger    zerolog.Logger
}

func NewPostService(posts PostStore, comments CommentStore, sanitizer *sanitize.Sanitizer, logger zerolog.Logger) *PostService {
	return &PostService{
		posts:     posts,
		comments:  comments,
		sanitizer: sanitizer,
		logger:    logger,
	}
}

// parsePostType maps the requested type to a known one; anything else,
// including a differently cased name, is a general post.
func parsePostType(v string) models.PostType {
	t := models.PostType(v)
	if !t.Valid() {
		return models.PostGeneral
	}
	return t
}

// parseDeadline accepts a plain date or a full RFC3339 timestamp.
func parseDeadline(v string) (*time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.NewValidationError("Invalid deadline! Use YYYY-MM-DD.").Add("deadline", "must be a date (YYYY-MM-DD)")
}

// CreatePost stores a post and, for job and internship posts, its job
// details. Nothing is written when validation fails.
func (s *PostService) CreatePost(ctx context.Context, userID int64, req dto.CreatePostRequest) (*models.Post, error) {
	post := &models.Post{
		UserID:   userID,
		Content:  s.sanitizer.Text(req.Content),
		ImageURL: req.ImageURL,
		PostType: parsePostType(req.PostType),
	}
	if post.Content == "" {
		return nil, apperrors.NewValidationError("Post content is required!").Add("content", "is required")
	}

	var job *models.JobDetails
	if post.PostType.HasJobDetails() {
		job = &models.JobDetails{
			CompanyName:    s.sanitizer.Text(req.CompanyName),
			Position:       s.sanitizer.Text(req.Position),
			Location:       s.sanitizer.Optional(req.Location),
			JobType:        s.sanitizer.Optional(req.JobType),
			Description:    s.sanitizer.Optional(req.Description),
			ApplicationURL: req.ApplicationURL,
		}

		verr := apperrors.NewValidationError(msgJobFieldsRequired)
		if job.CompanyName == "" {
			verr.Add("company_name", "is required")
		}
		if job.Position == "" {
			verr.Add("position", "is required")
		}
		if verr.HasErrors() {
			return nil, verr
		}

		if req.Deadline != nil && strings.TrimSpace(*req.Deadline) != "" {
			deadline, err := parseDeadline(strings.TrimSpace(*req.Deadline))
			if err != nil {
				return nil, err
			}
			job.Deadline = deadline
		}
	}

	if err := s.posts.Create(ctx, post, job); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("postID", post.ID).Str("type", string(post.PostType)).Msg("Post created")
	return post, nil
}

// ListPosts returns one page of the feed as seen by viewerID
func (s *PostService) ListPosts(ctx context.Context, viewerID int64, q dto.PostListQuery) (*dto.PostListResponse, error) {
	page, limit := helpers.NormalizePage(q.Page, q.Limit)

	filter := models.PostFilter{
		ViewerID: viewerID,
		Page:     page,
		Limit:    limit,
	}
	if t := models.PostType(q.Type); t.Valid() {
		filter.Type = t
	}

	posts, total, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.PostView{}
	}

	return &dto.PostListResponse{
		Posts:      posts,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// GetPost returns a post with its comments, oldest comment first
func (s *PostService) GetPost(ctx context.Context, postID, viewerID int64) (*models.PostView, error) {
	post, err := s.posts.GetView(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.CommentView{}
	}
	post.Comments = comments
	return post, nil
}

// UpdatePost changes a post owned by userID
func (s *PostService) UpdatePost(ctx context.Context, postID, userID int64, req dto.UpdatePostRequest) (*models.Post, error) {
	content := s.sanitizer.Optional(req.Content)
	if content != nil && *content == "" {
		return nil, apperrors.NewValidationError("Post content cannot be empty!").Add("content", "cannot be empty")
	}
	if content == nil && req.ImageURL == nil {
		return nil, apperrors.NewValidationError("Nothing to update!").Add("content", "content or image_url is required")
	}

	return s.posts.Update(ctx, postID, userID, content, req.ImageURL)
}

// DeletePost removes a post owned by userID
func (s *PostService) DeletePost(ctx context.Context, postID, userID int64) error {
	if err := s.posts.Delete(ctx, postID, userID); err != nil {
		return err
	}
	s.logger.Info().Int64("postID", postID).Int64("userID", userID).Msg("Post deleted")
	return nil
}

// ToggleLike likes the post, or removes the like when userID already liked it
func (s *PostService) ToggleLike(ctx context.Context, postID, userID int64) (models.LikeState, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return models.LikeState{}, err
	}
	return s.posts.ToggleLike(ctx, postID, userID)
}

// AddComment adds a comment by userID to a post
func (s *PostService) AddComment(ctx context.Context, postID, userID int64, req dto.CommentRequest) (*models.CommentView, error) {
	content := s.sanitizer.Text(req.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("Comment content is required!").Add("content", "is required")
	}

	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.Create(ctx, postID, userID, content)
}

// DeleteComment removes a comment written by userID
func (s *PostService) DeleteComment(ctx context.Context, commentID, userID int64) error {
	return s.comments.Delete(ctx, commentID, userID)
}

func (s *PostService) requirePost(ctx context.Context, postID int64) error {
	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewResourceNotFoundError("Post not found!")
	}
	return nil
}
