package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Payphone-Digital/helpdesk/internal/constants"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"github.com/Payphone-Digital/helpdesk/pkg/ratelimit"
	"github.com/gin-gonic/gin"
)

// Throttle limits requests per client IP in a sliding window shared through
// Redis. With a nil limiter it does nothing, and Redis errors let the
// request through.
func Throttle(limiter *ratelimit.Limiter, scope string, maxRequest int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		result, err := limiter.Allow(ctx, scope+":"+c.ClientIP(), maxRequest, window)
		if err != nil {
			logger.WarnWithContext(ctx, "Rate limiter unavailable, allowing request").
				String("scope", scope).
				Err(err).
				Log()
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			retryAfter := result.RetryAfter(time.Now())
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}

			logger.WarnWithContext(ctx, "Rate limit exceeded").
				String("scope", scope).
				String("path", c.Request.URL.Path).
				Int("max_requests", maxRequest).
				Duration(retryAfter).
				Log()

			c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
			c.Header(constants.HeaderRetryAfter, strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				constants.BuildCodedErrorResponse("TOO_MANY_REQUESTS", constants.MsgTooManyRequests, gin.H{
					"retry_after": seconds,
				}))
			return
		}

		c.Next()
	}
}
