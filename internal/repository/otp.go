package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"gorm.io/gorm"
)

type OtpRepository struct {
	db *gorm.DB
}

func NewOtpRepository(db *gorm.DB) *OtpRepository {
	return &OtpRepository{db: db}
}

func (r *OtpRepository) WithTx(tx *gorm.DB) *OtpRepository {
	return &OtpRepository{db: tx}
}

// Find returns the record for (email, action), or gorm.ErrRecordNotFound.
func (r *OtpRepository) Find(ctx context.Context, email string, action model.OtpAction) (*model.OtpRecord, error) {
	ctx = withFunction(ctx, "FindOtp")

	var record model.OtpRecord
	err := r.db.WithContext(ctx).
		Where("email = ? AND action = ?", email, action).
		First(&record).Error
	if err != nil {
		if !IsNotFound(err) {
			logger.ErrorWithContext(ctx, "Failed to find OTP record").
				String("action", string(action)).
				Err(err).
				Log()
		}
		return nil, err
	}
	return &record, nil
}

// Create inserts a record. A live record for the same pair makes it fail
// with a duplicate key error.
func (r *OtpRepository) Create(ctx context.Context, record *model.OtpRecord) error {
	ctx = withFunction(ctx, "CreateOtp")

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if !IsDuplicateKey(err) {
			logger.ErrorWithContext(ctx, "Failed to create OTP record").
				String("action", string(record.Action)).
				Err(err).
				Log()
		}
		return err
	}

	logger.DebugWithContext(ctx, "OTP record created").
		String("action", string(record.Action)).
		String("expires_at", record.ExpiresAt.Format(time.RFC3339)).
		Log()
	return nil
}

// DeleteExpired removes the record only while it is still expired at now,
// so a concurrently issued fresh record survives.
func (r *OtpRepository) DeleteExpired(ctx context.Context, email string, action model.OtpAction, now time.Time) error {
	ctx = withFunction(ctx, "DeleteExpiredOtp")

	err := r.db.WithContext(ctx).
		Where("email = ? AND action = ? AND expires_at < ?", email, action, now).
		Delete(&model.OtpRecord{}).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to delete expired OTP").Err(err).Log()
	}
	return err
}

// RecordFailedAttempt counts a wrong guess against the record and deletes
// it once maxAttempts is reached. It reports whether the record was deleted.
func (r *OtpRepository) RecordFailedAttempt(ctx context.Context, id uint, maxAttempts int) (bool, error) {
	ctx = withFunction(ctx, "RecordFailedOtpAttempt")

	err := r.db.WithContext(ctx).
		Model(&model.OtpRecord{}).
		Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to count OTP attempt").Err(err).Log()
		return false, err
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND attempts >= ?", id, maxAttempts).
		Delete(&model.OtpRecord{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete exhausted OTP").Err(result.Error).Log()
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteAll removes every record for (email, action).
func (r *OtpRepository) DeleteAll(ctx context.Context, email string, action model.OtpAction) (int64, error) {
	ctx = withFunction(ctx, "DeleteAllOtp")

	result := r.db.WithContext(ctx).
		Where("email = ? AND action = ?", email, action).
		Delete(&model.OtpRecord{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete OTP records").Err(result.Error).Log()
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// PurgeExpired removes all records that expired before now.
func (r *OtpRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx = withFunction(ctx, "PurgeExpiredOtp")

	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&model.OtpRecord{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to purge expired OTP records").Err(result.Error).Log()
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
