package handler

import (
	"net/http"

	"github.com/Payphone-Digital/helpdesk/internal/constants"
	"github.com/Payphone-Digital/helpdesk/internal/dto"
	"github.com/Payphone-Digital/helpdesk/internal/service"
	ctxutil "github.com/Payphone-Digital/helpdesk/pkg/context"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"github.com/gin-gonic/gin"
)

// UserHandler serves administrator user management.
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListUsers")

	var query dto.UserListQuery
	if !bindQuery(c, ctx, &query) {
		return
	}
	page := constants.ParsePaginationParams(c)

	users, total, err := h.userService.List(ctx, query, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, constants.BuildListResponse(users, total, page))
}

func (h *UserHandler) CreateEmployee(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreateEmployee")

	var req dto.CreateEmployeeRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	user, err := h.userService.CreateEmployee(ctx, req)
	if err != nil {
		logger.WarnWithContext(ctx, "Employee creation failed").Err(err).Log()
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateRole")
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	user, err := h.userService.UpdateRole(ctx, actor, id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateStatus(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateStatus")
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	user, err := h.userService.UpdateStatus(ctx, actor, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteUser")
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(ctx, actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgDeleted))
}
