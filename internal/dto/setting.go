package dto

import (
	"encoding/json"
	"time"
)

type UpsertSettingRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

type SettingResponse struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedBy uint            `json:"updated_by,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}
