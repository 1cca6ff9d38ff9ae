package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/Payphone-Digital/helpdesk/internal/constants"
	apperrors "github.com/Payphone-Digital/helpdesk/internal/errors"
	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/Payphone-Digital/helpdesk/internal/service"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"github.com/gin-gonic/gin"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// SessionMiddleware resolves the caller from the session cookie or a
// Bearer token and enforces role requirements.
type SessionMiddleware struct {
	sessions *service.SessionService
	cookie   CookieConfig
}

func NewSessionMiddleware(sessions *service.SessionService, cookie CookieConfig) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, cookie: cookie}
}

// RequireAuth rejects requests without a resolvable session with 401.
func (m *SessionMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.resolve(c) {
			logger.WarnWithContext(c.Request.Context(), "Unauthenticated request rejected").
				String("path", c.Request.URL.Path).
				String("method", c.Request.Method).
				Log()
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the identity when one resolves and never rejects.
func (m *SessionMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.resolve(c)
		c.Next()
	}
}

// RequireRoles authenticates and then admits only the given roles.
func (m *SessionMiddleware) RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok && m.resolve(c) {
			identity, ok = CurrentIdentity(c)
		}
		if !ok {
			identity = nil
		}

		if _, err := service.Require(identity, roles...); err != nil {
			if identity != nil {
				logger.WarnWithContext(c.Request.Context(), "Access denied for role").
					String("role", identity.Role.String()).
					String("path", c.Request.URL.Path).
					Log()
			}
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// SetCookie stores token as the session cookie.
func (m *SessionMiddleware) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, token, int(m.cookie.MaxAge.Seconds()), "/", "", m.cookie.Secure, true)
}

// ClearCookie expires the session cookie. Safe to call without one.
func (m *SessionMiddleware) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, "", -1, "/", "", m.cookie.Secure, true)
}

func (m *SessionMiddleware) resolve(c *gin.Context) bool {
	ctx := c.Request.Context()

	var identity *service.Identity
	ok := false
	if cookie, err := c.Cookie(m.cookie.Name); err == nil && cookie != "" {
		if identity, ok = m.sessions.Resolve(ctx, cookie); !ok {
			m.ClearCookie(c)
		}
	}
	if !ok {
		token := BearerToken(c)
		if token == "" {
			return false
		}
		if identity, ok = m.sessions.Resolve(ctx, token); !ok {
			return false
		}
	}

	c.Set(constants.GinKeyIdentity, identity)
	c.Set(constants.GinKeyUserID, identity.UserID)
	c.Set(constants.GinKeyUserRole, identity.Role.String())
	c.Request = c.Request.WithContext(service.WithIdentity(ctx, identity))
	return true
}

// BearerToken returns the token of an Authorization Bearer header, or "".
// A session cookie is tried first and a Bearer header only when the
// cookie is absent or does not resolve.
func BearerToken(c *gin.Context) string {
	scheme, credentials, ok := strings.Cut(c.GetHeader(constants.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, constants.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(credentials)
}

// CurrentIdentity returns the identity attached by the session middleware.
func CurrentIdentity(c *gin.Context) (*service.Identity, bool) {
	value, exists := c.Get(constants.GinKeyIdentity)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*service.Identity)
	return identity, ok && identity != nil
}

func abortWithError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	code := apperrors.ErrInternal.Code
	if domainErr := apperrors.GetDomainError(err); domainErr != nil {
		code = domainErr.Code
	}

	var message string
	switch status {
	case http.StatusUnauthorized:
		message = constants.MsgUnauthorized
	case http.StatusForbidden:
		message = constants.MsgForbidden
	default:
		message = apperrors.GetErrorMessage(err)
	}
	c.AbortWithStatusJSON(status, constants.BuildCodedErrorResponse(code, message, nil))
}
