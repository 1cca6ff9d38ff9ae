package model

import (
	"time"
)

type User struct {
	ID          uint       `gorm:"primaryKey"`
	Name        string     `gorm:"column:name;size:100;not null"`
	Email       string     `gorm:"column:email;size:255;not null;uniqueIndex:idx_users_email_active,where:is_deleted = false"`
	Phone       *string    `gorm:"column:phone;size:20;uniqueIndex:idx_users_phone_active,where:is_deleted = false"`
	Password    string     `gorm:"column:password;not null" json:"-"`
	Role        Role       `gorm:"column:role;size:16;not null;default:USER;index:idx_users_role"`
	Status      Status     `gorm:"column:status;size:16;not null;default:ACTIVE;index:idx_users_status"`
	Department  string     `gorm:"column:department;size:100"`
	Address     string     `gorm:"column:address;size:255"`
	Image       string     `gorm:"column:image;size:2048"`
	IsDeleted   bool       `gorm:"column:is_deleted;not null;default:false"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PhoneNumber returns the phone or an empty string.
func (u *User) PhoneNumber() string {
	if u.Phone == nil {
		return ""
	}
	return *u.Phone
}
