package model

import "time"

type Category struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"column:name;size:100;not null;uniqueIndex"`
	Description string `gorm:"column:description;size:500"`
	IsActive    bool   `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
