package middleware

import (
	"net/http"
	"strings"

	"github.com/Payphone-Digital/helpdesk/internal/constants"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"github.com/gin-gonic/gin"
)

var blockedPathPrefixes = []string{
	"/wp-admin",
	"/wp-content",
	"/wp-includes",
	"/wp-login",
	"/xmlrpc",
	"/phpmyadmin",
	"/.env",
	"/.git",
	"/cgi-bin",
	"/vendor/phpunit",
}

var blockedPathSuffixes = []string{".php", ".asp", ".aspx", ".jsp", ".cgi"}

// BlockSuspiciousPaths answers common exploit probes with 403 before they
// reach routing.
func BlockSuspiciousPaths() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSuspiciousPath(c.Request.URL.Path) {
			logger.WarnWithContext(c.Request.Context(), "Blocked suspicious path").
				String("path", c.Request.URL.Path).
				String("method", c.Request.Method).
				String("user_agent", c.Request.UserAgent()).
				Log()
			c.AbortWithStatusJSON(http.StatusForbidden,
				constants.BuildCodedErrorResponse("FORBIDDEN", constants.MsgForbidden, nil))
			return
		}
		c.Next()
	}
}

func isSuspiciousPath(path string) bool {
	p := strings.ToLower(path)
	for _, prefix := range blockedPathPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	for _, suffix := range blockedPathSuffixes {
		if strings.HasSuffix(p, suffix) {
			return true
		}
	}
	return false
}
