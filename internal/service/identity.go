package service

import (
	"context"

	"github.com/Payphone-Digital/helpdesk/internal/dto"
	"github.com/Payphone-Digital/helpdesk/internal/model"
	ctxutil "github.com/Payphone-Digital/helpdesk/pkg/context"
)

// Identity is the resolved caller of a request. It never carries the
// password hash.
type Identity struct {
	UserID     uint
	Name       string
	Email      string
	Phone      string
	Role       model.Role
	Status     model.Status
	Department string
}

func NewIdentity(user *model.User) *Identity {
	return &Identity{
		UserID:     user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Phone:      user.PhoneNumber(),
		Role:       user.Role,
		Status:     user.Status,
		Department: user.Department,
	}
}

// HasRole reports whether the identity holds one of roles.
func (i *Identity) HasRole(roles ...model.Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

func (i *Identity) Response() dto.UserResponse {
	return dto.UserResponse{
		ID:         i.UserID,
		Name:       i.Name,
		Email:      i.Email,
		Phone:      i.Phone,
		Role:       i.Role.String(),
		Status:     i.Status.String(),
		Department: i.Department,
	}
}

// WithIdentity stores the identity and its user id in ctx.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	ctx = ctxutil.WithValue(ctx, ctxutil.IdentityKey, identity)
	return ctxutil.WithUserID(ctx, identity.UserID)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(ctxutil.IdentityKey).(*Identity)
	return identity, ok && identity != nil
}
