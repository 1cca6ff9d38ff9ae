package constants

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// Context Keys for request tracking and metadata
const (
	CtxKeyRequestID ContextKey = "request_id"
	CtxKeyUserID    ContextKey = "user_id"
	CtxKeyClientIP  ContextKey = "client_ip"
	CtxKeyUserAgent ContextKey = "user_agent"
	CtxKeyStartTime ContextKey = "start_time"
	CtxKeyModule    ContextKey = "module"
	CtxKeyFunction  ContextKey = "function"
	CtxKeyIdentity  ContextKey = "identity"
)

// Gin context keys set by the session middleware
const (
	GinKeyIdentity  = "identity"
	GinKeyUserID    = "user_id"
	GinKeyUserRole  = "user_role"
	GinKeyRequestID = "request_id"
)
