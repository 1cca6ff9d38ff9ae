package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/Payphone-Digital/helpdesk/internal/constants"
	apperrors "github.com/Payphone-Digital/helpdesk/internal/errors"
	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/Payphone-Digital/helpdesk/internal/repository"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"github.com/Payphone-Digital/helpdesk/pkg/mailer"
)

// OtpConfig configures code lifetime and the outgoing email.
type OtpConfig struct {
	TTL     time.Duration
	From    string
	AppName string
}

// OtpIssued describes a code that was stored and handed to the mailer.
// The code itself is never returned.
type OtpIssued struct {
	Email     string
	Action    model.OtpAction
	ExpiresAt time.Time
}

type OtpService struct {
	repoUser *repository.UserRepository
	repoOtp  *repository.OtpRepository
	sender   mailer.Sender
	cfg      OtpConfig
	now      func() time.Time
	generate func() (string, error)
}

func NewOtpService(repoUser *repository.UserRepository, repoOtp *repository.OtpRepository, sender mailer.Sender, cfg OtpConfig) *OtpService {
	if cfg.AppName == "" {
		cfg.AppName = constants.AppName
	}
	return &OtpService{
		repoUser: repoUser,
		repoOtp:  repoOtp,
		sender:   sender,
		cfg:      cfg,
		now:      time.Now,
		generate: generateOtpCode,
	}
}

// TTL is the lifetime of an issued code.
func (s *OtpService) TTL() time.Duration {
	return s.cfg.TTL
}

// RequestOtp issues a one-time code for email and action and emails it.
// A live code for the same pair yields a CooldownError carrying the
// remaining lifetime. When delivery fails the record stays stored.
func (s *OtpService) RequestOtp(ctx context.Context, email string, action model.OtpAction) (*OtpIssued, error) {
	ctx = withFunction(ctx, "RequestOtp")

	email = normalizeEmail(email)
	if !validateEmail(email) || !action.Valid() {
		return nil, apperrors.ErrInvalidInput
	}

	if _, err := s.repoUser.GetByEmail(ctx, email); err == nil {
		logger.InfoWithContext(ctx, "OTP refused, account exists").
			String("action", string(action)).
			Log()
		return nil, apperrors.ErrAccountExists
	} else if !repository.IsNotFound(err) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	now := s.now()
	existing, err := s.repoOtp.Find(ctx, email, action)
	switch {
	case err == nil && !existing.Expired(now):
		return nil, s.cooldown(ctx, action, existing.ExpiresAt.Sub(now))
	case err == nil:
		if err := s.repoOtp.DeleteExpired(ctx, email, action, now); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	case !repository.IsNotFound(err):
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	code, err := s.generate()
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to generate OTP").Err(err).Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	record := &model.OtpRecord{
		Email:     email,
		Action:    action,
		Code:      code,
		ExpiresAt: now.Add(s.cfg.TTL),
	}
	if err := s.repoOtp.Create(ctx, record); err != nil {
		if repository.IsDuplicateKey(err) {
			// Lost a race with a concurrent request for the same pair.
			return nil, s.cooldown(ctx, action, s.cfg.TTL)
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	msg, err := s.composeMessage(email, code)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to render OTP email").Err(err).Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, constants.MailSendTimeout)
	defer cancel()
	if err := s.sender.Send(sendCtx, msg); err != nil {
		logger.ErrorWithContext(ctx, "Failed to deliver OTP email").
			String("action", string(action)).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrDeliveryFailed, err)
	}

	logger.InfoWithContext(ctx, "OTP issued").
		String("action", string(action)).
		String("expires_at", record.ExpiresAt.Format(time.RFC3339)).
		Log()

	return &OtpIssued{Email: email, Action: action, ExpiresAt: record.ExpiresAt}, nil
}

func (s *OtpService) cooldown(ctx context.Context, action model.OtpAction, retryAfter time.Duration) error {
	logger.InfoWithContext(ctx, "OTP refused, live code exists").
		String("action", string(action)).
		Duration(retryAfter).
		Log()
	return apperrors.NewCooldownError(apperrors.ErrOtpAlreadySent, retryAfter)
}

// generateOtpCode returns a uniformly random zero-padded 6 digit code.
func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", constants.OtpLength, n.Int64()), nil
}

// PurgeExpired removes every expired code. Expired codes are harmless, this
// only keeps the table small.
func (s *OtpService) PurgeExpired(ctx context.Context) (int64, error) {
	ctx = withFunction(ctx, "PurgeExpiredOtp")

	removed, err := s.repoOtp.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if removed > 0 {
		logger.InfoWithContext(ctx, "Expired OTP records purged").Int64("removed", removed).Log()
	}
	return removed, nil
}
