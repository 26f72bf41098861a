package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/accounthub/user-service/internal/api/handler"
	"github.com/accounthub/user-service/internal/api/middleware"
	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

// Dependencies bundles everything the router needs wired in.
type Dependencies struct {
	Users     ports.UserService
	Roles     ports.RoleService
	Limiter   middleware.Limiter
	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("users"))

	userHandler := handler.NewUserHandler(deps.Users)
	roleHandler := handler.NewRoleHandler(deps.Roles)
	auth := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	adminOrModerator := middleware.RBAC(domain.RoleAdmin, domain.RoleModerator)

	// --- Public: registration, rate-limited per client IP ---
	e.POST("/v1/users/register", userHandler.Register,
		middleware.RateLimit(deps.Limiter, "register", deps.Log))

	// --- Authenticated user routes ---
	users := e.Group("/v1/users", auth)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.PUT("/:id/password", userHandler.ChangePassword)

	// --- Admin / moderator routes ---
	users.GET("", userHandler.List, adminOrModerator)
	users.GET("/search", userHandler.Search, adminOrModerator)
	users.DELETE("/:id", userHandler.Delete, adminOnly)
	users.POST("/:id/restore", userHandler.Restore, adminOnly)
	users.PUT("/:id/roles", userHandler.AssignRoles, adminOnly)

	roles := e.Group("/v1/roles", auth, adminOnly)
	roles.POST("", roleHandler.Create)
	roles.GET("", roleHandler.List)
	roles.GET("/:id", roleHandler.Get)
	roles.PUT("/:id", roleHandler.Update)
	roles.DELETE("/:id", roleHandler.Delete)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
