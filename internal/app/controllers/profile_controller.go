package controllers

import (
	"net/http"

	"github.com/alumnode/backend/internal/app/models"
	"github.com/alumnode/backend/internal/app/models/dto"
	"github.com/alumnode/backend/internal/app/services"
	"github.com/alumnode/backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ProfileController serves profiles and the connection endpoints
type ProfileController struct {
	profileService    *services.ProfileService
	connectionService *services.ConnectionService
	logger            zerolog.Logger
}

func NewProfileController(profileService *services.ProfileService, connectionService *services.ConnectionService, logger zerolog.Logger) *ProfileController {
	return &ProfileController{
		profileService:    profileService,
		connectionService: connectionService,
		logger:            logger,
	}
}

// GetOwnProfile returns the caller's profile
// @Summary Get own profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthenticated"
// @Router /profile [get]
func (c *ProfileController) GetOwnProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	c.writeProfile(ctx, userID, userID)
}

// GetProfile returns another user's profile with the connection status
// @Summary Get a user's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile retrieved"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /profile/{id} [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	viewerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	targetID, ok := idParam(ctx, "user")
	if !ok {
		return
	}
	c.writeProfile(ctx, viewerID, targetID)
}

func (c *ProfileController) writeProfile(ctx *gin.Context, viewerID, targetID int64) {
	profile, err := c.profileService.GetProfile(ctx.Request.Context(), viewerID, targetID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Profile retrieved successfully", profile))
}

// UpdateProfile creates or updates the caller's profile
// @Summary Update own profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=models.Profile} "Profile updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /profile [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profile, err := c.profileService.UpdateProfile(ctx.Request.Context(), userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Profile updated successfully", profile))
}

// RequestConnection sends a connection request to user :id
// @Summary Request a connection
// @Description Accepts instead when user :id already asked the caller
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 201 {object} dto.APIResponse{data=models.Connection} "Request sent"
// @Success 200 {object} dto.APIResponse{data=models.Connection} "Request accepted or reopened"
// @Failure 400 {object} dto.APIResponse "Self request, already connected or already requested"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /profile/connect/{id} [post]
func (c *ProfileController) RequestConnection(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	targetID, ok := idParam(ctx, "user")
	if !ok {
		return
	}

	result, err := c.connectionService.RequestConnection(ctx.Request.Context(), userID, targetID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusOK
	if result.Action == models.ConnectionCreate {
		status = http.StatusCreated
	}
	ctx.JSON(status, dto.NewSuccessResponse(result.Message, result.Connection))
}

// RespondConnection accepts or rejects the pending request :id
// @Summary Respond to a connection request
// @Tags connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Connection ID"
// @Param request body dto.RespondConnectionRequest true "accept or reject"
// @Success 200 {object} dto.APIResponse{data=models.Connection} "Request answered"
// @Failure 400 {object} dto.APIResponse "Invalid action"
// @Failure 404 {object} dto.APIResponse "Request not found or not addressed to the caller"
// @Router /profile/connect/{id} [put]
func (c *ProfileController) RespondConnection(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	connectionID, ok := idParam(ctx, "connection")
	if !ok {
		return
	}

	var req dto.RespondConnectionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.connectionService.Respond(ctx.Request.Context(), connectionID, userID, req.Action)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result.Message, result.Connection))
}

// ListRequests returns the pending requests addressed to the caller
// @Summary List incoming connection requests
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.IncomingRequest} "Requests retrieved"
// @Router /profile/requests [get]
func (c *ProfileController) ListRequests(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	requests, err := c.connectionService.ListIncoming(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if requests == nil {
		requests = []models.IncomingRequest{}
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Connection requests retrieved successfully", requests))
}

// ListOwnConnections returns the caller's connections
// @Summary List own connections
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ConnectedUser} "Connections retrieved"
// @Router /profile/connections [get]
func (c *ProfileController) ListOwnConnections(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	c.writeConnections(ctx, userID)
}

// ListConnections returns the connections of user :id
// @Summary List a user's connections
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ConnectedUser} "Connections retrieved"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /profile/connections/{id} [get]
func (c *ProfileController) ListConnections(ctx *gin.Context) {
	if _, ok := currentUserID(ctx); !ok {
		return
	}
	userID, ok := idParam(ctx, "user")
	if !ok {
		return
	}
	c.writeConnections(ctx, userID)
}

func (c *ProfileController) writeConnections(ctx *gin.Context, userID int64) {
	connections, err := c.connectionService.ListConnections(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if connections == nil {
		connections = []models.ConnectedUser{}
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Connections retrieved successfully", connections))
}
