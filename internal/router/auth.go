package router

import (
	"github.com/Payphone-Digital/helpdesk/internal/constants"
	"github.com/Payphone-Digital/helpdesk/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) authRoutes(rg *gin.RouterGroup) {
	limit := r.Config.RateLimit

	auth := rg.Group("/auth")
	{
		auth.POST("/otp",
			middleware.Throttle(r.limiter, constants.RateLimitKeyOtp, limit.Request, limit.Duration),
			r.authHandler.RequestOtp,
		)
		auth.POST("/signup",
			middleware.Throttle(r.limiter, constants.RateLimitKeySignup, limit.Request, limit.Duration),
			r.authHandler.Signup,
		)
		auth.POST("/login",
			middleware.Throttle(r.limiter, constants.RateLimitKeyLogin, limit.Request, limit.Duration),
			r.authHandler.Login,
		)
		auth.POST("/logout", r.authHandler.Logout)
		auth.GET("/me", r.sessionMw.RequireAuth(), r.authHandler.Me)
	}
}
