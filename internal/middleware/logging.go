package middleware

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Payphone-Digital/helpdesk/internal/constants"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const slowRequestThreshold = 2 * time.Second

// LoggingMiddleware logs every request through zap instead of gin's writer.
func LoggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			requestID, _ := param.Keys[constants.GinKeyRequestID].(string)

			logger.LogRequest(
				param.Method,
				param.Path,
				param.StatusCode,
				param.Latency.Milliseconds(),
				param.ClientIP,
				param.Request.UserAgent(),
				requestID,
			)

			if param.ErrorMessage != "" {
				logger.GetLogger().Error("Request error",
					zap.String("error", param.ErrorMessage),
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.Int("status_code", param.StatusCode),
					zap.String("request_id", requestID),
				)
			}

			if param.Latency > slowRequestThreshold {
				logger.GetLogger().Warn("Slow request detected",
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.Duration("latency", param.Latency),
					zap.String("request_id", requestID),
				)
			}

			return ""
		},
		Output: io.Discard,
		// Probes would drown the log.
		SkipPaths: []string{"/health"},
	})
}

// RecoveryMiddleware turns panics into a logged 500.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			constants.BuildCodedErrorResponse("INTERNAL_ERROR", constants.MsgInternalError, nil))
	})
}

// SecurityLoggingMiddleware records scanner user agents and login attempts.
func SecurityLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userAgent := c.Request.UserAgent()

		if isSuspiciousUserAgent(userAgent) {
			logger.WarnWithContext(ctx, "Suspicious user agent detected").
				String("user_agent", userAgent).
				String("path", c.Request.URL.Path).
				Log()
		}

		if c.Request.Method == http.MethodPost && strings.HasSuffix(c.Request.URL.Path, "/auth/login") {
			logger.InfoWithContext(ctx, "Login attempt").
				String("user_agent", userAgent).
				Log()
		}

		c.Next()
	}
}

func isSuspiciousUserAgent(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, pattern := range []string{"sqlmap", "nikto", "nmap", "masscan", "zgrab", "dirbuster", "wpscan"} {
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}
