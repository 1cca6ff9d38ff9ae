package service

import (
	"testing"

	apperrors "github.com/Payphone-Digital/helpdesk/internal/errors"
	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRequire(t *testing.T) {
	user := &Identity{UserID: 1, Role: model.RoleUser}
	employee := &Identity{UserID: 2, Role: model.RoleEmployee}
	admin := &Identity{UserID: 3, Role: model.RoleAdmin}

	tests := []struct {
		name     string
		identity *Identity
		allowed  []model.Role
		wantErr  error
	}{
		{"anonymous", nil, []model.Role{model.RoleUser}, apperrors.ErrUnauthorized},
		{"anonymous any role", nil, nil, apperrors.ErrUnauthorized},
		{"any authenticated", user, nil, nil},
		{"user on admin route", user, []model.Role{model.RoleAdmin}, apperrors.ErrForbidden},
		{"employee on staff route", employee, []model.Role{model.RoleEmployee, model.RoleAdmin}, nil},
		{"employee on admin route", employee, []model.Role{model.RoleAdmin}, apperrors.ErrForbidden},
		{"admin on admin route", admin, []model.Role{model.RoleAdmin}, nil},
		{"admin on user route", admin, []model.Role{model.RoleUser}, apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Require(tt.identity, tt.allowed...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Same(t, tt.identity, got)
		})
	}
}
