package handler

import (
	"net/http"

	"github.com/Payphone-Digital/helpdesk/internal/dto"
	"github.com/Payphone-Digital/helpdesk/internal/service"
	ctxutil "github.com/Payphone-Digital/helpdesk/pkg/context"
	"github.com/gin-gonic/gin"
)

type SettingHandler struct {
	settingService *service.SettingService
}

func NewSettingHandler(settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

func (h *SettingHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListSettings")

	settings, err := h.settingService.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *SettingHandler) Upsert(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpsertSetting")
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req dto.UpsertSettingRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	setting, err := h.settingService.Upsert(ctx, actor, c.Param("key"), req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}
