package controllers

import (
	"net/http"

	"github.com/alumnode/backend/internal/app/models/dto"
	"github.com/alumnode/backend/internal/app/services"
	"github.com/alumnode/backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdminController handles admin accounts
type AdminController struct {
	adminService *services.AdminService
	logger       zerolog.Logger
}

func NewAdminController(adminService *services.AdminService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// CreateAdmin adds an admin
// @Summary Create an admin
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AdminCredentialsRequest true "Admin credentials"
// @Success 201 {object} dto.APIResponse{data=models.Admin} "Admin created"
// @Failure 400 {object} dto.APIResponse "Validation error or duplicate username"
// @Failure 401 {object} dto.APIResponse "Unauthenticated"
// @Router /admin/createAdmin [post]
func (c *AdminController) CreateAdmin(ctx *gin.Context) {
	var req dto.AdminCredentialsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	admin, err := c.adminService.CreateAdmin(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if creator, err := middleware.CurrentAdmin(ctx); err == nil {
		c.logger.Info().Str("createdBy", creator.Username).Str("username", admin.Username).Msg("Admin account added")
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Admin Created Successfully.", admin))
}

// Login authenticates an admin
// @Summary Admin login
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AdminCredentialsRequest true "Admin credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AdminAuthResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Wrong password"
// @Failure 404 {object} dto.APIResponse "Unknown admin"
// @Router /admin/login [post]
func (c *AdminController) Login(ctx *gin.Context) {
	var req dto.AdminCredentialsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.adminService.Login(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Admin Login Successful.", resp))
}

// Logout revokes the current admin token
// @Summary Admin logout
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Logout successful"
// @Failure 401 {object} dto.APIResponse "Unauthenticated"
// @Router /admin/logout [post]
func (c *AdminController) Logout(ctx *gin.Context) {
	if err := c.adminService.Logout(ctx.Request.Context(), middleware.CurrentToken(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Logout Successfull.", nil))
}
