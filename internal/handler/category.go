package handler

import (
	"net/http"

	"github.com/Payphone-Digital/helpdesk/internal/constants"
	"github.com/Payphone-Digital/helpdesk/internal/dto"
	"github.com/Payphone-Digital/helpdesk/internal/middleware"
	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/Payphone-Digital/helpdesk/internal/service"
	ctxutil "github.com/Payphone-Digital/helpdesk/pkg/context"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List shows active categories, and inactive ones too for administrators.
func (h *CategoryHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListCategories")

	identity, _ := middleware.CurrentIdentity(c)
	includeInactive := identity != nil && identity.Role == model.RoleAdmin
	page := constants.ParsePaginationParams(c)

	categories, total, err := h.categoryService.List(ctx, page, includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, constants.BuildListResponse(categories, total, page))
}

func (h *CategoryHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreateCategory")

	var req dto.CreateCategoryRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	category, err := h.categoryService.Create(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateCategory")
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	category, err := h.categoryService.Update(ctx, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteCategory")
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgDeleted))
}
