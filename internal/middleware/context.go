package middleware

import (
	"context"
	"time"

	"github.com/Payphone-Digital/helpdesk/internal/constants"
	ctxutil "github.com/Payphone-Digital/helpdesk/pkg/context"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxRequestIDLength = 64

// ContextMiddleware seeds the request context with a request id, client ip,
// user agent and start time, and echoes the id in X-Request-ID.
func ContextMiddleware(module string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		ctx := ctxutil.WithValue(c.Request.Context(), ctxutil.RequestIDKey, requestID)
		ctx = ctxutil.WithValue(ctx, ctxutil.ClientIPKey, c.ClientIP())
		ctx = ctxutil.WithValue(ctx, ctxutil.StartTimeKey, time.Now())
		ctx = ctxutil.NewContextWithRequest(ctx, c.Request, module, c.FullPath())

		c.Request = c.Request.WithContext(ctx)
		c.Set(constants.GinKeyRequestID, requestID)
		c.Header(constants.HeaderXRequestID, requestID)

		c.Next()

		logger.DebugWithContext(c.Request.Context(), "Request completed").
			String("method", c.Request.Method).
			String("path", c.Request.URL.Path).
			Int("status_code", c.Writer.Status()).
			Int("response_size", c.Writer.Size()).
			Duration(ctxutil.GetDuration(ctx)).
			Log()
	}
}

// RequestTimeoutMiddleware bounds the request context.
func RequestTimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
