package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
	HeaderRetryAfter    = "Retry-After"
)

// BearerScheme prefixes tokens in the Authorization header.
const BearerScheme = "Bearer"

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeHTML = "text/html"
)

// Common HTTP Error Messages
const (
	MsgUnauthorized       = "Unauthorized"
	MsgForbidden          = "Access forbidden"
	MsgNotFound           = "Resource not found"
	MsgBadRequest         = "Invalid request"
	MsgInternalError      = "Internal server error"
	MsgServiceUnavailable = "Service temporarily unavailable"
	MsgTooManyRequests    = "Too many requests"
)

// HTTP Success Messages
const (
	MsgCreated = "Resource created successfully"
	MsgUpdated = "Resource updated successfully"
	MsgDeleted = "Resource deleted successfully"
	MsgSuccess = "Operation completed successfully"
)

// Auth flow messages
const (
	MsgOtpSent         = "OTP sent successfully"
	MsgSignupSuccess   = "Signup successful"
	MsgLoginSuccess    = "Login successful"
	MsgLogoutSuccess   = "Logout successful"
	MsgLoginFailed     = "Invalid email or password"
	MsgPasswordChanged = "Password changed successfully"
	MsgAccountDeleted  = "Account deleted successfully"
)
