package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/alumnode/backend/internal/app/controllers"
	appMigrations "github.com/alumnode/backend/internal/app/migrations"
	appRepos "github.com/alumnode/backend/internal/app/repositories"
	appRoutes "github.com/alumnode/backend/internal/app/routes"
	appServices "github.com/alumnode/backend/internal/app/services"
	"github.com/alumnode/backend/internal/config"
	"github.com/alumnode/backend/internal/db"
	appMiddleware "github.com/alumnode/backend/internal/middleware"
	pkgAuth "github.com/alumnode/backend/internal/pkg/auth"
	"github.com/alumnode/backend/internal/pkg/logger"
	"github.com/alumnode/backend/internal/pkg/sanitize"
	"github.com/alumnode/backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos *appRepos.Repositories

	JWTService      *pkgAuth.JWTService
	UserSessions    *appServices.SessionService
	AdminSessions   *appServices.SessionService
	AuthService     *appServices.AuthService
	AdminService    *appServices.AdminService
	ConnectionSvc   *appServices.ConnectionService
	ProfileService  *appServices.ProfileService
	PostService     *appServices.PostService
	RateLimiter     *appMiddleware.RateLimiter
	UserAuth        *appMiddleware.AuthMiddleware
	AdminAuth       *appMiddleware.AuthMiddleware
	AuthController  *appControllers.AuthController
	AdminController *appControllers.AdminController
	PostController  *appControllers.PostController
	ProfileCtrl     *appControllers.ProfileController
	HealthCtrl      *appControllers.HealthController

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: isPrettyFormat(cfg.Logging.Format),
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

func isPrettyFormat(format string) bool {
	switch strings.ToLower(format) {
	case "pretty", "text", "console":
		return true
	}
	return false
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("dir", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrations"))
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// SetupRedis connects to redis when an address is configured. A nil client
// means the rate limiter is disabled.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	if !cfg.RedisEnabled() {
		lgr.Info().Msg("Redis not configured, rate limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// the limiter lets requests through while redis is down
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable at startup")
	} else {
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	}
	return client
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, redisClient *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	deps.Repos = appRepos.NewRepositories(database)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    cfg.TokenTTL(),
		TokenIssuer: cfg.JWT.Issuer,
	})
	hasher := pkgAuth.NewPasswordHasher(cfg.Auth.BcryptCost)
	sanitizer := sanitize.New()

	deps.UserSessions = appServices.NewSessionService(pkgAuth.PrincipalUser, deps.JWTService,
		deps.Repos.UserTokenRepository, logger.Component("sessions"))
	deps.AdminSessions = appServices.NewSessionService(pkgAuth.PrincipalAdmin, deps.JWTService,
		deps.Repos.AdminTokenRepository, logger.Component("sessions"))

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.UserSessions, hasher, logger.Component("auth"))
	deps.AdminService = appServices.NewAdminService(deps.Repos.AdminRepository, deps.AdminSessions, hasher, logger.Component("admin"))
	deps.ConnectionSvc = appServices.NewConnectionService(deps.Repos.ConnectionRepository, deps.Repos.UserRepository, logger.Component("connections"))
	deps.ProfileService = appServices.NewProfileService(deps.Repos.UserRepository, deps.Repos.ProfileRepository,
		deps.ConnectionSvc, sanitizer, logger.Component("profiles"))
	deps.PostService = appServices.NewPostService(deps.Repos.PostRepository, deps.Repos.CommentRepository,
		sanitizer, logger.Component("posts"))

	if redisClient != nil {
		deps.RateLimiter = appMiddleware.NewRateLimiter(redisClient, "auth",
			cfg.RateLimit.AuthRequests, cfg.RateLimit.Window, logger.Component("ratelimit"))
	}

	deps.UserAuth = appMiddleware.NewAuthMiddleware(deps.UserSessions, deps.AuthService.LoadUser)
	deps.AdminAuth = appMiddleware.NewAuthMiddleware(deps.AdminSessions, deps.AdminService.LoadAdmin)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.AdminController = appControllers.NewAdminController(deps.AdminService, lgr)
	deps.PostController = appControllers.NewPostController(deps.PostService, lgr)
	deps.ProfileCtrl = appControllers.NewProfileController(deps.ProfileService, deps.ConnectionSvc, lgr)
	deps.HealthCtrl = appControllers.NewHealthController(database)

	return deps, nil
}

// SeedData creates the bootstrap admin if one is configured.
func SeedData(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return seed.EnsureAdmin(ctx, deps.Repos.AdminRepository, deps.AdminService,
		cfg.Seed.AdminUsername, cfg.Seed.AdminPassword, lgr)
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))
	router.Use(appMiddleware.CORS(cfg.Server.AllowedOrigins))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, appRoutes.Dependencies{
		AuthController:    deps.AuthController,
		AdminController:   deps.AdminController,
		PostController:    deps.PostController,
		ProfileController: deps.ProfileCtrl,
		HealthController:  deps.HealthCtrl,
		UserAuth:          deps.UserAuth,
		AdminAuth:         deps.AdminAuth,
		AuthLimiter:       deps.RateLimiter,
	})

	return router
}
