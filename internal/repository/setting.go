package repository

import (
	"context"

	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) List(ctx context.Context) ([]model.Setting, error) {
	ctx = withFunction(ctx, "ListSettings")

	var settings []model.Setting
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to list settings").Err(err).Log()
		return nil, err
	}
	return settings, nil
}

func (r *SettingRepository) Get(ctx context.Context, key string) (*model.Setting, error) {
	ctx = withFunction(ctx, "GetSetting")

	var setting model.Setting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		if !IsNotFound(err) {
			logger.ErrorWithContext(ctx, "Failed to get setting").String("key", key).Err(err).Log()
		}
		return nil, err
	}
	return &setting, nil
}

// Upsert inserts the setting or replaces the value of an existing key.
func (r *SettingRepository) Upsert(ctx context.Context, setting *model.Setting) error {
	ctx = withFunction(ctx, "UpsertSetting")

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to upsert setting").String("key", setting.Key).Err(err).Log()
	}
	return err
}
