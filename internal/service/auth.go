package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/Payphone-Digital/helpdesk/internal/constants"
	"github.com/Payphone-Digital/helpdesk/internal/dto"
	apperrors "github.com/Payphone-Digital/helpdesk/internal/errors"
	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/Payphone-Digital/helpdesk/internal/repository"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SignupProfile is the account data submitted with a signup OTP.
type SignupProfile struct {
	Name       string
	Email      string
	Phone      string
	Password   string
	Department string
}

// AuthResult is a freshly authenticated account and its session token.
type AuthResult struct {
	User      dto.UserResponse
	Identity  *Identity
	Token     string
	ExpiresAt time.Time
	Redirect  string
}

type AuthService struct {
	db       *gorm.DB
	repoUser *repository.UserRepository
	repoOtp  *repository.OtpRepository
	tokens   *JWTService
	now      func() time.Time
}

func NewAuthService(db *gorm.DB, repoUser *repository.UserRepository, repoOtp *repository.OtpRepository, tokens *JWTService) *AuthService {
	return &AuthService{
		db:       db,
		repoUser: repoUser,
		repoOtp:  repoOtp,
		tokens:   tokens,
		now:      time.Now,
	}
}

// CompleteSignup redeems a signup OTP and creates an ACTIVE USER account.
// The OTP is consumed in the same transaction that creates the user.
func (s *AuthService) CompleteSignup(ctx context.Context, profile SignupProfile, otp string) (*AuthResult, error) {
	ctx = withFunction(ctx, "CompleteSignup")

	profile.Email = normalizeEmail(profile.Email)
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Phone = strings.TrimSpace(profile.Phone)
	if profile.Name == "" || !validateEmail(profile.Email) || !validPassword(profile.Password) {
		return nil, apperrors.ErrInvalidInput
	}

	exists, err := s.repoUser.ExistsByEmailOrPhone(ctx, profile.Email, profile.Phone)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if exists {
		logger.LogAuth(profile.Email, "signup", false, zap.String("reason", "user_exists"))
		return nil, apperrors.ErrUserExists
	}

	record, err := s.repoOtp.Find(ctx, profile.Email, model.OtpActionSignup)
	if err != nil {
		if repository.IsNotFound(err) {
			logger.LogAuth(profile.Email, "signup", false, zap.String("reason", "otp_missing"))
			return nil, apperrors.ErrInvalidOtp
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(strings.TrimSpace(otp))) != 1 {
		burned, err := s.repoOtp.RecordFailedAttempt(ctx, record.ID, constants.MaxOtpAttempts)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		reason := "otp_mismatch"
		if burned {
			reason = "otp_attempts_exhausted"
		}
		logger.LogAuth(profile.Email, "signup", false, zap.String("reason", reason), zap.Int("attempts", record.Attempts+1))
		return nil, apperrors.ErrInvalidOtp
	}
	if record.Expired(s.now()) {
		logger.LogAuth(profile.Email, "signup", false, zap.String("reason", "otp_expired"))
		return nil, apperrors.ErrOtpExpired
	}

	hashed, err := hashPassword(profile.Password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").Err(err).Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Name:       profile.Name,
		Email:      profile.Email,
		Phone:      optionalString(profile.Phone),
		Password:   hashed,
		Role:       model.RoleUser,
		Status:     model.StatusActive,
		Department: strings.TrimSpace(profile.Department),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		consumed, err := s.repoOtp.WithTx(tx).DeleteAll(ctx, profile.Email, model.OtpActionSignup)
		if err != nil {
			return err
		}
		if consumed == 0 {
			// Redeemed by a concurrent signup.
			return apperrors.ErrInvalidOtp
		}
		return s.repoUser.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidOtp):
			return nil, apperrors.ErrInvalidOtp
		case repository.IsDuplicateKey(err):
			return nil, apperrors.ErrUserExists
		default:
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	logger.LogAuth(profile.Email, "signup", true, zap.Uint("user_id", user.ID))
	return s.issue(ctx, user)
}

// Login verifies email and password. Unknown emails and wrong passwords
// return different errors so callers can log them, but handlers must show
// the same message for both. Disabled accounts are only reported after the
// password checks out.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	ctx = withFunction(ctx, "Login")

	email = normalizeEmail(email)
	user, err := s.repoUser.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			burnPasswordCheck(password)
			logger.LogAuth(email, "login", false, zap.String("reason", "user_not_found"))
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !checkPassword(user.Password, password) {
		logger.LogAuth(email, "login", false, zap.String("reason", "wrong_password"), zap.Uint("user_id", user.ID))
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.Status.CanSignIn() {
		logger.LogAuth(email, "login", false, zap.String("reason", "account_disabled"), zap.String("status", user.Status.String()))
		return nil, apperrors.ErrAccountDisabled
	}

	now := s.now()
	if err := s.repoUser.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.WarnWithContext(ctx, "Failed to record last login").Uint("target_user_id", user.ID).Err(err).Log()
	} else {
		user.LastLoginAt = &now
	}

	logger.LogAuth(email, "login", true, zap.Uint("user_id", user.ID), zap.String("role", user.Role.String()))
	return s.issue(ctx, user)
}

func (s *AuthService) issue(ctx context.Context, user *model.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to issue token").Uint("target_user_id", user.ID).Err(err).Log()
		return nil, err
	}

	return &AuthResult{
		User:      toUserResponse(user),
		Identity:  NewIdentity(user),
		Token:     token,
		ExpiresAt: expiresAt,
		Redirect:  user.Role.HomePath(),
	}, nil
}
