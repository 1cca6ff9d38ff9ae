package model

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is an admin-managed application setting with a JSON value.
type Setting struct {
	ID        uint           `gorm:"primaryKey"`
	Key       string         `gorm:"column:key;size:100;not null;uniqueIndex"`
	Value     datatypes.JSON `gorm:"column:value"`
	UpdatedBy uint           `gorm:"column:updated_by"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
