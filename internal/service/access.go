package service

import (
	apperrors "github.com/Payphone-Digital/helpdesk/internal/errors"
	"github.com/Payphone-Digital/helpdesk/internal/model"
)

// Require admits identity when it holds one of allowed. With no allowed
// roles any authenticated identity passes.
func Require(identity *Identity, allowed ...model.Role) (*Identity, error) {
	if identity == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if len(allowed) == 0 || identity.HasRole(allowed...) {
		return identity, nil
	}
	return nil, apperrors.ErrForbidden
}
