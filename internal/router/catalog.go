package router

import (
	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/gin-gonic/gin"
)

func (r *Router) catalogRoutes(rg *gin.RouterGroup) {
	adminOnly := r.sessionMw.RequireRoles(model.RoleAdmin)

	categories := rg.Group("/categories")
	{
		categories.GET("", r.sessionMw.RequireAuth(), r.categoryHandler.List)
		categories.POST("", adminOnly, r.categoryHandler.Create)
		categories.PATCH("/:id", adminOnly, r.categoryHandler.Update)
		categories.DELETE("/:id", adminOnly, r.categoryHandler.Delete)
	}

	settings := rg.Group("/settings")
	settings.Use(adminOnly)
	{
		settings.GET("", r.settingHandler.List)
		settings.PUT("/:key", r.settingHandler.Upsert)
	}

	rg.GET("/dashboard", adminOnly, r.dashboardHandler.Summary)
}
