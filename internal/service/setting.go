package service

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/Payphone-Digital/helpdesk/internal/dto"
	apperrors "github.com/Payphone-Digital/helpdesk/internal/errors"
	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/Payphone-Digital/helpdesk/internal/repository"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"gorm.io/datatypes"
)

var settingKeyRegex = regexp.MustCompile(`^[a-z][a-z0-9_.-]{0,99}$`)

type SettingService struct {
	repo *repository.SettingRepository
}

func NewSettingService(repo *repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

func (s *SettingService) List(ctx context.Context) ([]dto.SettingResponse, error) {
	ctx = withFunction(ctx, "ListSettings")

	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := make([]dto.SettingResponse, 0, len(settings))
	for i := range settings {
		resp = append(resp, toSettingResponse(&settings[i]))
	}
	return resp, nil
}

func (s *SettingService) Get(ctx context.Context, key string) (*dto.SettingResponse, error) {
	ctx = withFunction(ctx, "GetSetting")

	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrSettingNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	resp := toSettingResponse(setting)
	return &resp, nil
}

// Upsert stores value under key. Keys are lowercase and dotted, values any
// JSON document.
func (s *SettingService) Upsert(ctx context.Context, actor *Identity, key string, value json.RawMessage) (*dto.SettingResponse, error) {
	ctx = withFunction(ctx, "UpsertSetting")

	if !settingKeyRegex.MatchString(key) || len(value) == 0 || !json.Valid(value) {
		return nil, apperrors.ErrInvalidInput
	}

	setting := &model.Setting{
		Key:       key,
		Value:     datatypes.JSON(value),
		UpdatedBy: actor.UserID,
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Setting saved").String("key", key).Log()
	return s.Get(ctx, key)
}

func toSettingResponse(setting *model.Setting) dto.SettingResponse {
	return dto.SettingResponse{
		Key:       setting.Key,
		Value:     json.RawMessage(setting.Value),
		UpdatedBy: setting.UpdatedBy,
		UpdatedAt: setting.UpdatedAt,
	}
}
