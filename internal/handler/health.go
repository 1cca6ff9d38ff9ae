package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Payphone-Digital/helpdesk/internal/constants"
	"github.com/Payphone-Digital/helpdesk/pkg/circuit"
	"github.com/Payphone-Digital/helpdesk/pkg/database"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"github.com/Payphone-Digital/helpdesk/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
	statusDisabled  = "disabled"
)

type HealthHandler struct {
	db          *gorm.DB
	redisClient *redis.Client
	mailBreaker *circuit.Breaker
}

type HealthCheckResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthHandler takes a nil redis client when Redis is disabled and a
// nil breaker when mail is not guarded.
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, mailBreaker *circuit.Breaker) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		mailBreaker: mailBreaker,
	}
}

// HealthCheck reports 503 only when the database is down. Redis and mail
// problems degrade the status without failing it.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.HealthCheckTimeout)
	defer cancel()

	response := HealthCheckResponse{
		Status:    statusHealthy,
		Version:   constants.AppVersion,
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]HealthCheck, 3),
	}

	response.Checks["database"] = h.checkDatabase(ctx)
	response.Checks["redis"] = h.checkRedis(ctx)
	response.Checks["mail"] = h.checkMail()

	statusCode := http.StatusOK
	if response.Checks["database"].Status != statusHealthy {
		response.Status = statusUnhealthy
		statusCode = http.StatusServiceUnavailable
	} else if response.Checks["redis"].Status == statusUnhealthy || response.Checks["mail"].Status == statusUnhealthy {
		response.Status = statusDegraded
	}

	logger.GetLogger().Debug("Health check performed",
		zap.String("overall_status", response.Status),
		zap.Int("status_code", statusCode),
	)

	c.JSON(statusCode, response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) HealthCheck {
	if h.db == nil {
		return HealthCheck{Status: statusUnhealthy, Message: "Database connection not initialized"}
	}

	if err := database.Ping(ctx, h.db); err != nil {
		logger.GetLogger().Error("Database ping failed", zap.Error(err))
		return HealthCheck{Status: statusUnhealthy, Message: "Database ping failed"}
	}
	return HealthCheck{Status: statusHealthy}
}

func (h *HealthHandler) checkRedis(ctx context.Context) HealthCheck {
	if !h.redisClient.IsEnabled() {
		return HealthCheck{Status: statusDisabled, Message: "Request throttling is off"}
	}

	if err := h.redisClient.Ping(ctx); err != nil {
		logger.GetLogger().Warn("Redis ping failed", zap.Error(err))
		return HealthCheck{Status: statusUnhealthy, Message: "Redis ping failed"}
	}
	return HealthCheck{Status: statusHealthy}
}

func (h *HealthHandler) checkMail() HealthCheck {
	if h.mailBreaker == nil {
		return HealthCheck{Status: statusDisabled}
	}

	state := h.mailBreaker.State()
	if state == circuit.StateOpen {
		return HealthCheck{Status: statusUnhealthy, Message: "Mail delivery circuit is open"}
	}
	return HealthCheck{Status: statusHealthy, Message: "Mail delivery circuit is " + state.String()}
}
