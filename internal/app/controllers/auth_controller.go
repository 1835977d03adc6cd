// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/alumnode/backend/internal/app/models/dto"
	"github.com/alumnode/backend/internal/app/services"
	"github.com/alumnode/backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthController handles user signup, login and logout
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Signup handles user registration
// @Summary Register a new user
// @Description Creates a user account and logs the user in
// @Tags user
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "User registration information"
// @Success 201 {object} dto.APIResponse{data=dto.UserAuthResponse} "Signup successful"
// @Failure 400 {object} dto.APIResponse "Validation error or user already exists"
// @Failure 429 {object} dto.APIResponse "Too many requests"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /user/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Signup(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Signup Successful. Welcome aboard!", resp))
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user and returns a fresh token
// @Tags user
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.UserAuthResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Validation error or wrong password"
// @Failure 404 {object} dto.APIResponse "Unknown email"
// @Failure 429 {object} dto.APIResponse "Too many requests"
// @Router /user/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		c.logger.Info().Str("email", req.Email).Err(err).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Login Successful. Welcome back!", resp))
}

// Logout revokes the current token
// @Summary User logout
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Logout successful"
// @Failure 401 {object} dto.APIResponse "Unauthenticated"
// @Router /user/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.authService.Logout(ctx.Request.Context(), middleware.CurrentToken(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Logout Successful. Have a great day!", nil))
}
