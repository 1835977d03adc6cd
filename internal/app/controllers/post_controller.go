package controllers

import (
	"net/http"

	"github.com/alumnode/backend/internal/app/models/dto"
	"github.com/alumnode/backend/internal/app/services"
	"github.com/alumnode/backend/internal/middleware"
	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/alumnode/backend/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PostController handles the feed, likes and comments
type PostController struct {
	postService *services.PostService
	logger      zerolog.Logger
}

func NewPostController(postService *services.PostService, logger zerolog.Logger) *PostController {
	return &PostController{
		postService: postService,
		logger:      logger,
	}
}

// idParam reads the :id path parameter, writing a 400 when it is malformed.
func idParam(ctx *gin.Context, what string) (int64, bool) {
	id, ok := helpers.ParseIDParam(ctx, "id")
	if !ok {
		middleware.HandleAPIError(ctx,
			apperrors.NewValidationError("Invalid "+what+" ID!").Add("id", "must be a positive integer"))
		return 0, false
	}
	return id, true
}

// currentUserID reads the authenticated user, writing a 401 when missing.
func currentUserID(ctx *gin.Context) (int64, bool) {
	id, err := middleware.CurrentUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return 0, false
	}
	return id, true
}

// CreatePost publishes a post
// @Summary Create a post
// @Description Job and internship posts require company_name and position
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post"
// @Success 201 {object} dto.APIResponse{data=models.Post} "Post created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthenticated"
// @Router /posts [post]
func (c *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	post, err := c.postService.CreatePost(ctx.Request.Context(), userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Post created successfully", post))
}

// ListPosts returns a page of the feed
// @Summary List posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param type query string false "Post type" Enums(general, job, internship, achievement)
// @Success 200 {object} dto.APIResponse{data=dto.PostListResponse} "Posts retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthenticated"
// @Router /posts [get]
func (c *PostController) ListPosts(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	page, limit := helpers.ParsePaginationParams(ctx)
	query := dto.PostListQuery{Page: page, Limit: limit, Type: ctx.Query("type")}

	resp, err := c.postService.ListPosts(ctx.Request.Context(), userID, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Posts retrieved successfully", resp))
}

// GetPost returns a post with its comments
// @Summary Get a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=models.PostView} "Post retrieved"
// @Failure 404 {object} dto.APIResponse "Post not found"
// @Router /posts/{id} [get]
func (c *PostController) GetPost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := idParam(ctx, "post")
	if !ok {
		return
	}

	post, err := c.postService.GetPost(ctx.Request.Context(), postID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Post retrieved successfully", post))
}

// UpdatePost edits the caller's post
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.UpdatePostRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=models.Post} "Post updated"
// @Failure 404 {object} dto.APIResponse "Post not found or not owned"
// @Router /posts/{id} [put]
func (c *PostController) UpdatePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := idParam(ctx, "post")
	if !ok {
		return
	}

	var req dto.UpdatePostRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	post, err := c.postService.UpdatePost(ctx.Request.Context(), postID, userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Post updated successfully", post))
}

// DeletePost removes the caller's post
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse "Post deleted"
// @Failure 404 {object} dto.APIResponse "Post not found or not owned"
// @Router /posts/{id} [delete]
func (c *PostController) DeletePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := idParam(ctx, "post")
	if !ok {
		return
	}

	if err := c.postService.DeletePost(ctx.Request.Context(), postID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Post deleted successfully", nil))
}

// ToggleLike likes or unlikes a post
// @Summary Toggle like
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=models.LikeState} "Like toggled"
// @Failure 404 {object} dto.APIResponse "Post not found"
// @Router /posts/{id}/like [post]
func (c *PostController) ToggleLike(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := idParam(ctx, "post")
	if !ok {
		return
	}

	state, err := c.postService.ToggleLike(ctx.Request.Context(), postID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	msg := "Post unliked successfully"
	if state.UserLiked {
		msg = "Post liked successfully"
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(msg, state))
}

// AddComment comments on a post
// @Summary Add a comment
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.CommentRequest true "Comment"
// @Success 201 {object} dto.APIResponse{data=models.CommentView} "Comment added"
// @Failure 404 {object} dto.APIResponse "Post not found"
// @Router /posts/{id}/comment [post]
func (c *PostController) AddComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := idParam(ctx, "post")
	if !ok {
		return
	}

	var req dto.CommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	comment, err := c.postService.AddComment(ctx.Request.Context(), postID, userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Comment added successfully", comment))
}

// DeleteComment removes the caller's comment
// @Summary Delete a comment
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} dto.APIResponse "Comment deleted"
// @Failure 404 {object} dto.APIResponse "Comment not found or not owned"
// @Router /posts/comment/{id} [delete]
func (c *PostController) DeleteComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	commentID, ok := idParam(ctx, "comment")
	if !ok {
		return
	}

	if err := c.postService.DeleteComment(ctx.Request.Context(), commentID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Comment deleted successfully", nil))
}
