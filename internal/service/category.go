package service

import (
	"context"
	"strings"

	"github.com/Payphone-Digital/helpdesk/internal/constants"
	"github.com/Payphone-Digital/helpdesk/internal/dto"
	apperrors "github.com/Payphone-Digital/helpdesk/internal/errors"
	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/Payphone-Digital/helpdesk/internal/repository"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
)

type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// List pages through categories. Inactive ones are only shown to callers
// that can manage them.
func (s *CategoryService) List(ctx context.Context, page constants.PaginationParams, includeInactive bool) ([]dto.CategoryResponse, int64, error) {
	ctx = withFunction(ctx, "ListCategories")

	categories, total, err := s.repo.List(ctx, page.Search, !includeInactive, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	docs := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		docs = append(docs, toCategoryResponse(&categories[i]))
	}
	return docs, total, nil
}

func (s *CategoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	ctx = withFunction(ctx, "CreateCategory")

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ErrInvalidInput
	}

	category := &model.Category{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperrors.ErrCategoryExists
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Category created").Uint("category_id", category.ID).Log()
	resp := toCategoryResponse(category)
	return &resp, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	ctx = withFunction(ctx, "UpdateCategory")

	fields := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.ErrInvalidInput
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) > 0 {
		if err := s.repo.Update(ctx, id, fields); err != nil {
			return nil, s.mapError(err)
		}
		logger.InfoWithContext(ctx, "Category updated").Uint("category_id", id).Log()
	}

	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}
	resp := toCategoryResponse(category)
	return &resp, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	ctx = withFunction(ctx, "DeleteCategory")

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError(err)
	}
	logger.InfoWithContext(ctx, "Category deleted").Uint("category_id", id).Log()
	return nil
}

func (s *CategoryService) mapError(err error) error {
	switch {
	case repository.IsNotFound(err):
		return apperrors.ErrCategoryNotFound
	case repository.IsDuplicateKey(err):
		return apperrors.ErrCategoryExists
	default:
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
}

func toCategoryResponse(c *model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
