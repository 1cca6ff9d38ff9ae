package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"gorm.io/gorm"
)

// UserFilter narrows user listings. Zero values match everything.
type UserFilter struct {
	Role   model.Role
	Status model.Status
	Search string
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("is_deleted = ?", false)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = withFunction(ctx, "GetByID")

	start := time.Now()
	var user model.User
	err := r.active(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if !IsNotFound(err) {
			logger.ErrorWithContext(ctx, "Failed to get user by ID").
				Uint("target_user_id", id).
				Duration(time.Since(start)).
				Err(err).
				Log()
		}
		return nil, err
	}

	return &user, nil
}

// GetByEmail finds a non-deleted user by normalized email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = withFunction(ctx, "GetByEmail")

	start := time.Now()
	var user model.User
	err := r.active(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if !IsNotFound(err) {
			logger.ErrorWithContext(ctx, "Failed to get user by email").
				Duration(time.Since(start)).
				Err(err).
				Log()
		}
		return nil, err
	}

	logger.DebugWithContext(ctx, "User retrieved by email").
		Uint("target_user_id", user.ID).
		Duration(time.Since(start)).
		Log()

	return &user, nil
}

// ExistsByEmailOrPhone checks non-deleted users for either value.
func (r *UserRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	ctx = withFunction(ctx, "ExistsByEmailOrPhone")

	query := r.active(ctx)
	if phone != "" {
		query = query.Where("(email = ? OR phone = ?)", email, phone)
	} else {
		query = query.Where("email = ?", email)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to check user existence").Err(err).Log()
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = withFunction(ctx, "Create")

	start := time.Now()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		level := logger.ErrorWithContext
		if IsDuplicateKey(err) {
			level = logger.WarnWithContext
		}
		level(ctx, "Failed to create user").
			String("role", user.Role.String()).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "User created").
		Uint("target_user_id", user.ID).
		String("role", user.Role.String()).
		Duration(time.Since(start)).
		Log()
	return nil
}

// UpdateFields applies a partial update to a non-deleted user.
func (r *UserRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	ctx = withFunction(ctx, "UpdateFields")

	if len(fields) == 0 {
		return nil
	}

	result := r.active(ctx).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		level := logger.ErrorWithContext
		if IsDuplicateKey(result.Error) {
			level = logger.WarnWithContext
		}
		level(ctx, "Failed to update user").
			Uint("target_user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"password": hash})
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uint, role model.Role) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"role": role})
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id uint, status model.Status) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"status": status})
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"last_login_at": at})
}

// SoftDelete flags the user as deleted. The row and its history stay.
func (r *UserRepository) SoftDelete(ctx context.Context, id uint) error {
	ctx = withFunction(ctx, "SoftDelete")

	if err := r.UpdateFields(ctx, id, map[string]interface{}{"is_deleted": true}); err != nil {
		return err
	}

	logger.InfoWithContext(ctx, "User soft-deleted").
		Uint("target_user_id", id).
		Log()
	return nil
}

func (r *UserRepository) List(ctx context.Context, filter UserFilter, limit, offset int) ([]model.User, int64, error) {
	ctx = withFunction(ctx, "List")

	start := time.Now()
	query := r.active(ctx)

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(
			`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count users").Err(err).Log()
		return nil, 0, err
	}

	var users []model.User
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch users").
			Int("limit", limit).
			Int("offset", offset).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.DebugWithContext(ctx, "Users listed").
		Int("count", len(users)).
		Int64("total", total).
		Duration(time.Since(start)).
		Log()

	return users, total, nil
}

type groupCount struct {
	GroupKey string
	Count    int64
}

func (r *UserRepository) countBy(ctx context.Context, column string) (map[string]int64, error) {
	var rows []groupCount
	err := r.active(ctx).
		Select(column + " AS group_key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to count users").
			String("group_by", column).
			Err(err).
			Log()
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.GroupKey] = row.Count
	}
	return counts, nil
}

// CountByRole returns non-deleted user counts keyed by role.
func (r *UserRepository) CountByRole(ctx context.Context) (map[model.Role]int64, error) {
	raw, err := r.countBy(withFunction(ctx, "CountByRole"), "role")
	if err != nil {
		return nil, err
	}
	counts := make(map[model.Role]int64, len(model.Roles))
	for _, role := range model.Roles {
		counts[role] = raw[string(role)]
	}
	return counts, nil
}

// CountByStatus returns non-deleted user counts keyed by status.
func (r *UserRepository) CountByStatus(ctx context.Context) (map[model.Status]int64, error) {
	raw, err := r.countBy(withFunction(ctx, "CountByStatus"), "status")
	if err != nil {
		return nil, err
	}
	counts := make(map[model.Status]int64, len(model.Statuses))
	for _, status := range model.Statuses {
		counts[status] = raw[string(status)]
	}
	return counts, nil
}
