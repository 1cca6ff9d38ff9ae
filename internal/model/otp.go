package model

import "time"

// OtpAction separates OTP flows so a code issued for one cannot redeem another.
type OtpAction string

const (
	OtpActionSignup OtpAction = "signup"
)

func (a OtpAction) Valid() bool {
	switch a {
	case OtpActionSignup:
		return true
	default:
		return false
	}
}

// OtpRecord is at most one live code per (email, action).
type OtpRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"column:email;size:255;not null;uniqueIndex:idx_otp_email_action"`
	Action    OtpAction `gorm:"column:action;size:32;not null;uniqueIndex:idx_otp_email_action"`
	Code      string    `gorm:"column:code;size:6;not null"`
	Attempts  int       `gorm:"column:attempts;not null;default:0"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	CreatedAt time.Time
}

func (OtpRecord) TableName() string {
	return "otp_records"
}

// Expired reports whether the record is past its expiry at now.
func (o *OtpRecord) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
