package database

import (
	"errors"
	"strings"

	"github.com/Payphone-Digital/helpdesk/config"
	"github.com/Payphone-Digital/helpdesk/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the administrator account when it does not exist yet.
// It reports whether a row was created. Without a configured password
// nothing is seeded.
func SeedAdmin(db *gorm.DB, cfg config.SeedConfig) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return false, nil
	}

	var existing model.User
	err := db.Where("email = ? AND is_deleted = ?", email, false).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	admin := model.User{
		Name:     cfg.AdminName,
		Email:    email,
		Password: string(hashedPassword),
		Role:     model.RoleAdmin,
		Status:   model.StatusActive,
	}

	if err := db.Create(&admin).Error; err != nil {
		return false, err
	}
	return true, nil
}
