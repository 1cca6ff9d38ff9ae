package constants

import "time"

// Application Information
const (
	AppName    = "Helpdesk"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvDevelopment
)

// Redis key prefixes
const (
	RedisKeyPrefix    = "helpdesk:"
	RateLimitKeyOtp    = RedisKeyPrefix + "ratelimit:otp"
	RateLimitKeySignup = RedisKeyPrefix + "ratelimit:signup"
	RateLimitKeyLogin  = RedisKeyPrefix + "ratelimit:login"
)

// Timeouts for outbound collaborators
const (
	MailSendTimeout    = 10 * time.Second
	HealthCheckTimeout = 2 * time.Second
)

// Log Levels
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)
