package database

import (
	"github.com/Payphone-Digital/helpdesk/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.OtpRecord{},
		&model.Category{},
		&model.Setting{},
	)
}
