package router

import (
	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/gin-gonic/gin"
)

func (r *Router) profileRoutes(rg *gin.RouterGroup) {
	profile := rg.Group("/profile")
	profile.Use(r.sessionMw.RequireAuth())
	{
		profile.GET("", r.profileHandler.Get)
		profile.PATCH("", r.profileHandler.Update)
		profile.DELETE("", r.profileHandler.Delete)
		profile.PUT("/password", r.profileHandler.ChangePassword)
	}
}

func (r *Router) userRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("")
	admin.Use(r.sessionMw.RequireRoles(model.RoleAdmin))
	{
		admin.GET("/users", r.userHandler.List)
		admin.PATCH("/users/:id/role", r.userHandler.UpdateRole)
		admin.PATCH("/users/:id/status", r.userHandler.UpdateStatus)
		admin.DELETE("/users/:id", r.userHandler.Delete)
		admin.POST("/employees", r.userHandler.CreateEmployee)
	}
}
