package service

import (
	"context"

	"github.com/Payphone-Digital/helpdesk/internal/dto"
	apperrors "github.com/Payphone-Digital/helpdesk/internal/errors"
	"github.com/Payphone-Digital/helpdesk/internal/repository"
)

type DashboardService struct {
	repoUser     *repository.UserRepository
	repoCategory *repository.CategoryRepository
}

func NewDashboardService(repoUser *repository.UserRepository, repoCategory *repository.CategoryRepository) *DashboardService {
	return &DashboardService{repoUser: repoUser, repoCategory: repoCategory}
}

// Summary counts non-deleted users by role and status, and categories.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardResponse, error) {
	ctx = withFunction(ctx, "DashboardSummary")

	byRole, err := s.repoUser.CountByRole(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	byStatus, err := s.repoUser.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	categories, err := s.repoCategory.Count(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := &dto.DashboardResponse{
		UsersByRole:     make(map[string]int64, len(byRole)),
		UsersByStatus:   make(map[string]int64, len(byStatus)),
		TotalCategories: categories,
	}
	for role, n := range byRole {
		resp.UsersByRole[role.String()] = n
		resp.TotalUsers += n
	}
	for status, n := range byStatus {
		resp.UsersByStatus[status.String()] = n
	}
	return resp, nil
}
