package handler

import (
	"net/http"

	"github.com/Payphone-Digital/helpdesk/internal/constants"
	"github.com/Payphone-Digital/helpdesk/internal/dto"
	"github.com/Payphone-Digital/helpdesk/internal/middleware"
	"github.com/Payphone-Digital/helpdesk/internal/service"
	ctxutil "github.com/Payphone-Digital/helpdesk/pkg/context"
	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the caller's own account.
type ProfileHandler struct {
	userService *service.UserService
	session     *middleware.SessionMiddleware
}

func NewProfileHandler(userService *service.UserService, session *middleware.SessionMiddleware) *ProfileHandler {
	return &ProfileHandler{userService: userService, session: session}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetProfile")
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(ctx, identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateProfile")
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	profile, err := h.userService.UpdateProfile(ctx, identity.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ChangePassword")
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	if err := h.userService.ChangePassword(ctx, identity.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgPasswordChanged))
}

// Delete soft-deletes the caller and ends the session.
func (h *ProfileHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteAccount")
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteAccount(ctx, identity); err != nil {
		respondError(c, err)
		return
	}

	h.session.ClearCookie(c)
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgAccountDeleted))
}
