package constants

// Field Length Limits
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
	MinNameLength     = 2
	MaxNameLength     = 100
	MinPhoneLength    = 8
	MaxPhoneLength    = 20
	MaxEmailLength    = 255
	MaxDescLength     = 500
)

// OTP settings
const (
	OtpLength = 6
	// MaxOtpAttempts wrong guesses delete the code.
	MaxOtpAttempts = 5
)

// Validation Patterns
const (
	EmailPattern = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
)
