package repository

import (
	"context"
	"strings"

	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	ctx = withFunction(ctx, "GetCategoryByID")

	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if !IsNotFound(err) {
			logger.ErrorWithContext(ctx, "Failed to get category").Uint("category_id", id).Err(err).Log()
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	ctx = withFunction(ctx, "CreateCategory")

	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if !IsDuplicateKey(err) {
			logger.ErrorWithContext(ctx, "Failed to create category").Err(err).Log()
		}
		return err
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	ctx = withFunction(ctx, "UpdateCategory")

	result := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if !IsDuplicateKey(result.Error) {
			logger.ErrorWithContext(ctx, "Failed to update category").Uint("category_id", id).Err(result.Error).Log()
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	ctx = withFunction(ctx, "DeleteCategory")

	result := r.db.WithContext(ctx).Delete(&model.Category{}, id)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete category").Uint("category_id", id).Err(result.Error).Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns categories ordered by name. activeOnly hides disabled ones.
func (r *CategoryRepository) List(ctx context.Context, search string, activeOnly bool, limit, offset int) ([]model.Category, int64, error) {
	ctx = withFunction(ctx, "ListCategories")

	query := r.db.WithContext(ctx).Model(&model.Category{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(search))+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count categories").Err(err).Log()
		return nil, 0, err
	}

	var categories []model.Category
	if err := query.Order("name ASC").Limit(limit).Offset(offset).Find(&categories).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to list categories").Err(err).Log()
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(withFunction(ctx, "CountCategories")).Model(&model.Category{}).Count(&total).Error
	return total, err
}
