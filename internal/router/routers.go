package router

import (
	"github.com/Payphone-Digital/helpdesk/config"
	"github.com/Payphone-Digital/helpdesk/internal/handler"
	"github.com/Payphone-Digital/helpdesk/internal/middleware"
	"github.com/Payphone-Digital/helpdesk/pkg/ratelimit"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler      *handler.AuthHandler
	profileHandler   *handler.ProfileHandler
	userHandler      *handler.UserHandler
	categoryHandler  *handler.CategoryHandler
	settingHandler   *handler.SettingHandler
	dashboardHandler *handler.DashboardHandler
	healthHandler    *handler.HealthHandler

	sessionMw *middleware.SessionMiddleware
	// limiter is nil when Redis is disabled.
	limiter *ratelimit.Limiter
	Config  *config.Config
}

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Profile   *handler.ProfileHandler
	User      *handler.UserHandler
	Category  *handler.CategoryHandler
	Setting   *handler.SettingHandler
	Dashboard *handler.DashboardHandler
	Health    *handler.HealthHandler
}

func NewRouter(
	handlers Handlers,
	sessionMw *middleware.SessionMiddleware,
	limiter *ratelimit.Limiter,
	config *config.Config,
) *Router {
	return &Router{
		authHandler:      handlers.Auth,
		profileHandler:   handlers.Profile,
		userHandler:      handlers.User,
		categoryHandler:  handlers.Category,
		settingHandler:   handlers.Setting,
		dashboardHandler: handlers.Dashboard,
		healthHandler:    handlers.Health,

		sessionMw: sessionMw,
		limiter:   limiter,
		Config:    config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.ContextMiddleware("http"))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.BlockSuspiciousPaths())
	router.Use(middleware.SecurityLoggingMiddleware())
	router.Use(middleware.CORS(r.Config.App.AllowedOrigins))
	router.Use(middleware.RequestTimeoutMiddleware(r.Config.App.Timeout))

	router.GET("/health", r.healthHandler.HealthCheck)

	api := router.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/health", r.healthHandler.HealthCheck)

			r.authRoutes(v1)
			r.profileRoutes(v1)
			r.userRoutes(v1)
			r.catalogRoutes(v1)
		}
	}

	return router
}
