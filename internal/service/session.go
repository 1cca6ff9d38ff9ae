package service

import (
	"context"

	"github.com/Payphone-Digital/helpdesk/internal/repository"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
)

// SessionService turns a presented token into the current account.
type SessionService struct {
	tokens   *JWTService
	repoUser *repository.UserRepository
}

func NewSessionService(tokens *JWTService, repoUser *repository.UserRepository) *SessionService {
	return &SessionService{tokens: tokens, repoUser: repoUser}
}

// Resolve returns the identity for token, re-read from storage so role and
// status changes apply immediately. It reports false for an invalid token,
// a deleted or replaced account, or an account that may not sign in.
func (s *SessionService) Resolve(ctx context.Context, token string) (*Identity, bool) {
	ctx = withFunction(ctx, "ResolveSession")

	if token == "" {
		return nil, false
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		logger.DebugWithContext(ctx, "Session token rejected").Err(err).Log()
		return nil, false
	}

	user, err := s.repoUser.GetByEmail(ctx, claims.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			logger.WarnWithContext(ctx, "Session account no longer exists").
				Uint("target_user_id", claims.UserID).
				Log()
		}
		return nil, false
	}

	// The email may have been re-registered after a soft delete.
	if user.ID != claims.UserID {
		logger.WarnWithContext(ctx, "Session token belongs to a replaced account").
			Uint("target_user_id", claims.UserID).
			Log()
		return nil, false
	}

	if !user.Status.CanSignIn() {
		logger.InfoWithContext(ctx, "Session refused for disabled account").
			Uint("target_user_id", user.ID).
			String("status", user.Status.String()).
			Log()
		return nil, false
	}

	return NewIdentity(user), true
}
