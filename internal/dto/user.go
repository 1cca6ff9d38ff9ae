package dto

import "time"

type UserResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Department  string     `json:"department,omitempty"`
	Address     string     `json:"address,omitempty"`
	Image       string     `json:"image,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
}

// UpdateProfileRequest only changes fields that are present.
type UpdateProfileRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=2,max=100"`
	Phone      *string `json:"phone" binding:"omitempty,numeric,min=8,max=20"`
	Department *string `json:"department" binding:"omitempty,max=100"`
	Address    *string `json:"address" binding:"omitempty,max=255"`
	Image      *string `json:"image" binding:"omitempty,url,max=2048"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=72"`
}

type CreateEmployeeRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Email      string `json:"email" binding:"required,email,max=255"`
	Phone      string `json:"phone" binding:"omitempty,numeric,min=8,max=20"`
	Password   string `json:"password" binding:"required,min=6,max=72"`
	Role       string `json:"role" binding:"required,role"`
	Department string `json:"department" binding:"omitempty,max=100"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,role"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,userstatus"`
}

type UserListQuery struct {
	Role   string `form:"role" binding:"omitempty,role"`
	Status string `form:"status" binding:"omitempty,userstatus"`
}
