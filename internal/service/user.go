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

// UserService covers self-service profile operations and user
// administration.
type UserService struct {
	repoUser *repository.UserRepository
}

func NewUserService(repoUser *repository.UserRepository) *UserService {
	return &UserService{repoUser: repoUser}
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	ctx = withFunction(ctx, "GetProfile")

	user, err := s.repoUser.GetByID(ctx, userID)
	if err != nil {
		return nil, s.mapLookupError(err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	ctx = withFunction(ctx, "UpdateProfile")

	fields := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.ErrInvalidInput
		}
		fields["name"] = name
	}
	if req.Phone != nil {
		fields["phone"] = optionalString(*req.Phone)
	}
	if req.Department != nil {
		fields["department"] = strings.TrimSpace(*req.Department)
	}
	if req.Address != nil {
		fields["address"] = strings.TrimSpace(*req.Address)
	}
	if req.Image != nil {
		fields["image"] = strings.TrimSpace(*req.Image)
	}

	if err := s.repoUser.UpdateFields(ctx, userID, fields); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperrors.ErrUserExists
		}
		return nil, s.mapLookupError(err)
	}

	logger.InfoWithContext(ctx, "Profile updated").Int("fields", len(fields)).Log()
	return s.GetProfile(ctx, userID)
}

// ChangePassword replaces the password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	ctx = withFunction(ctx, "ChangePassword")

	if !validPassword(next) {
		return apperrors.ErrInvalidInput
	}

	user, err := s.repoUser.GetByID(ctx, userID)
	if err != nil {
		return s.mapLookupError(err)
	}
	if !checkPassword(user.Password, current) {
		logger.WarnWithContext(ctx, "Password change refused, current password mismatch").Log()
		return apperrors.ErrIncorrectPassword
	}

	hashed, err := hashPassword(next)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if err := s.repoUser.UpdatePassword(ctx, userID, hashed); err != nil {
		return s.mapLookupError(err)
	}

	logger.InfoWithContext(ctx, "Password changed").Log()
	return nil
}

// DeleteAccount soft-deletes the caller. Administrators are refused so the
// system is never left without one by accident.
func (s *UserService) DeleteAccount(ctx context.Context, caller *Identity) error {
	ctx = withFunction(ctx, "DeleteAccount")

	if caller.Role == model.RoleAdmin {
		return apperrors.ErrSelfModification
	}
	if err := s.repoUser.SoftDelete(ctx, caller.UserID); err != nil {
		return s.mapLookupError(err)
	}

	logger.InfoWithContext(ctx, "Account deleted by owner").Log()
	return nil
}

// List returns a filtered page of non-deleted users.
func (s *UserService) List(ctx context.Context, query dto.UserListQuery, page constants.PaginationParams) ([]dto.UserResponse, int64, error) {
	ctx = withFunction(ctx, "ListUsers")

	filter := repository.UserFilter{Search: page.Search}
	if query.Role != "" {
		role, ok := model.ParseRole(query.Role)
		if !ok {
			return nil, 0, apperrors.ErrInvalidRole
		}
		filter.Role = role
	}
	if query.Status != "" {
		status, ok := model.ParseStatus(query.Status)
		if !ok {
			return nil, 0, apperrors.ErrInvalidStatus
		}
		filter.Status = status
	}

	users, total, err := s.repoUser.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	docs := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		docs = append(docs, toUserResponse(&users[i]))
	}
	return docs, total, nil
}

// CreateEmployee creates an ACTIVE staff account.
func (s *UserService) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.UserResponse, error) {
	ctx = withFunction(ctx, "CreateEmployee")

	role, ok := model.ParseRole(req.Role)
	if !ok || role == model.RoleUser {
		return nil, apperrors.ErrInvalidRole
	}

	email := normalizeEmail(req.Email)
	if !validateEmail(email) || !validPassword(req.Password) {
		return nil, apperrors.ErrInvalidInput
	}

	exists, err := s.repoUser.ExistsByEmailOrPhone(ctx, email, strings.TrimSpace(req.Phone))
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if exists {
		return nil, apperrors.ErrUserExists
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Name:       strings.TrimSpace(req.Name),
		Email:      email,
		Phone:      optionalString(req.Phone),
		Password:   hashed,
		Role:       role,
		Status:     model.StatusActive,
		Department: strings.TrimSpace(req.Department),
	}
	if err := s.repoUser.Create(ctx, user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperrors.ErrUserExists
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Employee account created").
		Uint("target_user_id", user.ID).
		String("role", role.String()).
		Log()

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *UserService) UpdateRole(ctx context.Context, actor *Identity, targetID uint, roleName string) (*dto.UserResponse, error) {
	ctx = withFunction(ctx, "UpdateRole")

	role, ok := model.ParseRole(roleName)
	if !ok {
		return nil, apperrors.ErrInvalidRole
	}
	if actor.UserID == targetID {
		return nil, apperrors.ErrSelfModification
	}
	if err := s.repoUser.UpdateRole(ctx, targetID, role); err != nil {
		return nil, s.mapLookupError(err)
	}

	logger.InfoWithContext(ctx, "User role changed").
		Uint("target_user_id", targetID).
		String("role", role.String()).
		Log()
	return s.GetProfile(ctx, targetID)
}

func (s *UserService) UpdateStatus(ctx context.Context, actor *Identity, targetID uint, statusName string) (*dto.UserResponse, error) {
	ctx = withFunction(ctx, "UpdateStatus")

	status, ok := model.ParseStatus(statusName)
	if !ok {
		return nil, apperrors.ErrInvalidStatus
	}
	if actor.UserID == targetID {
		return nil, apperrors.ErrSelfModification
	}
	if err := s.repoUser.UpdateStatus(ctx, targetID, status); err != nil {
		return nil, s.mapLookupError(err)
	}

	logger.InfoWithContext(ctx, "User status changed").
		Uint("target_user_id", targetID).
		String("status", status.String()).
		Log()
	return s.GetProfile(ctx, targetID)
}

func (s *UserService) DeleteUser(ctx context.Context, actor *Identity, targetID uint) error {
	ctx = withFunction(ctx, "DeleteUser")

	if actor.UserID == targetID {
		return apperrors.ErrSelfModification
	}
	if err := s.repoUser.SoftDelete(ctx, targetID); err != nil {
		return s.mapLookupError(err)
	}

	logger.InfoWithContext(ctx, "User deleted by administrator").Uint("target_user_id", targetID).Log()
	return nil
}

func (s *UserService) mapLookupError(err error) error {
	if repository.IsNotFound(err) {
		return apperrors.ErrUserNotFound
	}
	return apperrors.WrapError(apperrors.ErrInternal, err)
}
