package dto

import "time"

type OtpRequest struct {
	Email  string `json:"email" binding:"required,email,max=255"`
	Action string `json:"action" binding:"required,otpaction"`
}

type OtpResponse struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SignupRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Email      string `json:"email" binding:"required,email,max=255"`
	Phone      string `json:"phone" binding:"required,numeric,min=8,max=20"`
	Password   string `json:"password" binding:"required,min=6,max=72"`
	Otp        string `json:"otp" binding:"required,otpcode"`
	Department string `json:"department" binding:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by signup and login. The token is also set as
// an HttpOnly cookie; the body copy serves Bearer clients.
type AuthResponse struct {
	Message   string       `json:"message"`
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Redirect  string       `json:"redirect"`
}
