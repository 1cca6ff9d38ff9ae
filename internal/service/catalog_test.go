package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Payphone-Digital/helpdesk/internal/constants"
	"github.com/Payphone-Digital/helpdesk/internal/dto"
	apperrors "github.com/Payphone-Digital/helpdesk/internal/errors"
	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	page := constants.PaginationParams{Page: 1, Limit: 10}

	hardware, err := env.category.Create(ctx, dto.CreateCategoryRequest{Name: "Hardware"})
	require.NoError(t, err)
	assert.True(t, hardware.IsActive)

	_, err = env.category.Create(ctx, dto.CreateCategoryRequest{Name: "Hardware"})
	assert.ErrorIs(t, err, apperrors.ErrCategoryExists)

	_, err = env.category.Create(ctx, dto.CreateCategoryRequest{Name: "Network"})
	require.NoError(t, err)

	off := false
	updated, err := env.category.Update(ctx, hardware.ID, dto.UpdateCategoryRequest{IsActive: &off})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	docs, total, err := env.category.List(ctx, page, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Network", docs[0].Name)

	_, total, err = env.category.List(ctx, page, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	require.NoError(t, env.category.Delete(ctx, hardware.ID))
	assert.ErrorIs(t, env.category.Delete(ctx, hardware.ID), apperrors.ErrCategoryNotFound)

	_, err = env.category.Update(ctx, hardware.ID, dto.UpdateCategoryRequest{})
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
}

func TestSettingUpsert(t *testing.T) {
	env := newTestEnv(t)
	admin := &Identity{UserID: 1, Role: model.RoleAdmin}
	ctx := context.Background()

	_, err := env.setting.Upsert(ctx, admin, "Bad Key", json.RawMessage(`1`))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = env.setting.Upsert(ctx, admin, "sla.hours", json.RawMessage(`{broken`))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	saved, err := env.setting.Upsert(ctx, admin, "sla.hours", json.RawMessage(`{"high":4}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"high":4}`, string(saved.Value))

	saved, err = env.setting.Upsert(ctx, admin, "sla.hours", json.RawMessage(`{"high":2}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"high":2}`, string(saved.Value))

	all, err := env.setting.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = env.setting.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrSettingNotFound)
}

func TestDashboardSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createUser(t, "a@example.com", "secret123", model.RoleUser, model.StatusActive)
	env.createUser(t, "b@example.com", "secret123", model.RoleUser, model.StatusSuspended)
	env.createUser(t, "c@example.com", "secret123", model.RoleAdmin, model.StatusActive)
	gone := env.createUser(t, "d@example.com", "secret123", model.RoleEmployee, model.StatusActive)
	require.NoError(t, env.users.SoftDelete(ctx, gone.ID))
	_, err := env.category.Create(ctx, dto.CreateCategoryRequest{Name: "Billing"})
	require.NoError(t, err)

	summary, err := env.dashboard.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalUsers)
	assert.Equal(t, int64(2), summary.UsersByRole["USER"])
	assert.Equal(t, int64(0), summary.UsersByRole["EMPLOYEE"])
	assert.Equal(t, int64(1), summary.UsersByStatus["SUSPENDED"])
	assert.Equal(t, int64(1), summary.TotalCategories)
}
