package routes

import (
	"github.com/alumnode/backend/internal/app/controllers"
	"github.com/alumnode/backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Dependencies holds everything the router wires together
type Dependencies struct {
	AuthController    *controllers.AuthController
	AdminController   *controllers.AdminController
	PostController    *controllers.PostController
	ProfileController *controllers.ProfileController
	HealthController  *controllers.HealthController

	UserAuth  *middleware.AuthMiddleware
	AdminAuth *middleware.AuthMiddleware

	// AuthLimiter guards signup and login; nil disables it
	AuthLimiter *middleware.RateLimiter
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, deps Dependencies) {
	api := router.Group("/api")

	api.GET("/health", deps.HealthController.Health)

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if deps.AuthLimiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{deps.AuthLimiter.Limit(), h}
	}

	// --- User accounts ---
	user := api.Group("/user")
	{
		user.POST("/signup", limited(deps.AuthController.Signup)...)
		user.POST("/login", limited(deps.AuthController.Login)...)
		user.POST("/logout", deps.UserAuth.Guard(), deps.AuthController.Logout)
	}

	// --- Admin accounts ---
	admin := api.Group("/admin")
	{
		admin.POST("/login", limited(deps.AdminController.Login)...)
		admin.POST("/createAdmin", deps.AdminAuth.Guard(), deps.AdminController.CreateAdmin)
		admin.POST("/logout", deps.AdminAuth.Guard(), deps.AdminController.Logout)
	}

	// --- Authenticated user routes ---
	authenticated := api.Group("")
	authenticated.Use(deps.UserAuth.Guard())

	posts := authenticated.Group("/posts")
	{
		posts.POST("", deps.PostController.CreatePost)
		posts.GET("", deps.PostController.ListPosts)
		posts.GET("/:id", deps.PostController.GetPost)
		posts.PUT("/:id", deps.PostController.UpdatePost)
		posts.DELETE("/:id", deps.PostController.DeletePost)
		posts.POST("/:id/like", deps.PostController.ToggleLike)
		posts.POST("/:id/comment", deps.PostController.AddComment)
		posts.DELETE("/comment/:id", deps.PostController.DeleteComment)
	}

	profile := authenticated.Group("/profile")
	{
		profile.GET("", deps.ProfileController.GetOwnProfile)
		profile.PUT("", deps.ProfileController.UpdateProfile)
		profile.GET("/connections", deps.ProfileController.ListOwnConnections)
		profile.GET("/connections/:id", deps.ProfileController.ListConnections)
		profile.GET("/requests", deps.ProfileController.ListRequests)
		profile.POST("/connect/:id", deps.ProfileController.RequestConnection)
		profile.PUT("/connect/:id", deps.ProfileController.RespondConnection)
		profile.GET("/:id", deps.ProfileController.GetProfile)
	}
}
