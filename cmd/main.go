package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/Payphone-Digital/helpdesk/config"
	"github.com/Payphone-Digital/helpdesk/internal/constants"
	"github.com/Payphone-Digital/helpdesk/internal/handler"
	"github.com/Payphone-Digital/helpdesk/internal/middleware"
	"github.com/Payphone-Digital/helpdesk/internal/repository"
	"github.com/Payphone-Digital/helpdesk/internal/router"
	"github.com/Payphone-Digital/helpdesk/internal/service"
	"github.com/Payphone-Digital/helpdesk/pkg/circuit"
	"github.com/Payphone-Digital/helpdesk/pkg/database"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"github.com/Payphone-Digital/helpdesk/pkg/mailer"
	"github.com/Payphone-Digital/helpdesk/pkg/ratelimit"
	"github.com/Payphone-Digital/helpdesk/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const otpPurgeInterval = 10 * time.Minute

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	if created, err := database.SeedAdmin(db, config.Seed); err != nil {
		logger.GetLogger().Error("Failed to seed administrator", zap.Error(err))
	} else if created {
		logger.GetLogger().Info("Administrator account seeded", zap.String("email", config.Seed.AdminEmail))
	}

	redisClient, err := redis.NewClient(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisClient.Close()

	var limiter *ratelimit.Limiter
	if redisClient.IsEnabled() {
		limiter = ratelimit.NewLimiter(redisClient.Raw(), constants.RedisKeyPrefix+"throttle")
	}

	// Mail delivery
	var transport mailer.Sender
	if config.Mail.ResendAPIKey != "" {
		transport = mailer.NewResendSender(config.Mail.ResendAPIKey, logger.GetLogger())
	} else {
		logger.GetLogger().Warn("RESEND_API_KEY not set, OTP emails are only logged")
		transport = mailer.NewLogSender(logger.GetLogger())
	}
	breakerConfig := circuit.DefaultConfig()
	breakerConfig.Threshold = config.Mail.FailureThreshold
	breakerConfig.Timeout = config.Mail.OpenTimeout
	mailBreaker := circuit.NewBreaker("mail", breakerConfig, logger.GetLogger())
	sender := mailer.NewGuardedSender(transport, mailBreaker)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOtpRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Services
	jwtService := service.NewJWTService(config.JWT.Secret, config.JWT.ExpirationTime, config.JWT.Issuer)
	otpService := service.NewOtpService(userRepo, otpRepo, sender, service.OtpConfig{
		TTL:     config.Auth.OtpTTL,
		From:    config.Mail.From,
		AppName: constants.AppName,
	})
	authService := service.NewAuthService(db, userRepo, otpRepo, jwtService)
	sessionService := service.NewSessionService(jwtService, userRepo)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	settingService := service.NewSettingService(settingRepo)
	dashboardService := service.NewDashboardService(userRepo, categoryRepo)

	// Middleware
	if err := middleware.RegisterValidators(); err != nil {
		logger.GetLogger().Fatal("Failed to register validators", zap.Error(err))
	}
	sessionMiddleware := middleware.NewSessionMiddleware(sessionService, middleware.CookieConfig{
		Name:   config.Auth.CookieName,
		Secure: config.IsProduction(),
		MaxAge: jwtService.TTL(),
	})

	// Handlers
	engine := router.NewRouter(
		router.Handlers{
			Auth:      handler.NewAuthHandler(otpService, authService, sessionMiddleware),
			Profile:   handler.NewProfileHandler(userService, sessionMiddleware),
			User:      handler.NewUserHandler(userService),
			Category:  handler.NewCategoryHandler(categoryService),
			Setting:   handler.NewSettingHandler(settingService),
			Dashboard: handler.NewDashboardHandler(dashboardService),
			Health:    handler.NewHealthHandler(db, redisClient, mailBreaker),
		},
		sessionMiddleware,
		limiter,
		config,
	).SetupRoutes()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeExpiredOtps(ctx, otpService)

	server := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	<-ctx.Done()
	logger.GetLogger().Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().Error("Server forced to shut down", zap.Error(err))
	}
}

// purgeExpiredOtps clears expired codes until ctx ends.
func purgeExpiredOtps(ctx context.Context, otpService *service.OtpService) {
	ticker := time.NewTicker(otpPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := otpService.PurgeExpired(ctx); err != nil {
				logger.GetLogger().Warn("Failed to purge expired OTP records", zap.Error(err))
			}
		}
	}
}
