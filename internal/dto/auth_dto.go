package dto

import (
	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=Buyer Supplier"`

	// Supplier onboarding fields, ignored for buyers.
	CompanyName    string `json:"company_name,omitempty"`
	BusinessType   string `json:"business_type,omitempty"`
	CompanyCountry string `json:"company_country,omitempty"`
	CompanyWebsite string `json:"company_website,omitempty"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type AuthResponse struct {
	Token string       `json:"token,omitempty"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID     uuid.UUID            `json:"id"`
	Name   string               `json:"name"`
	Email  string               `json:"email"`
	Role   models.Role          `json:"role"`
	Status models.AccountStatus `json:"status"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Status: u.Status,
	}
}

type UpdateUserRequest struct {
	Name   string `json:"name,omitempty" validate:"omitempty,max=255"`
	Role   string `json:"role,omitempty" validate:"omitempty,oneof=Admin Buyer Supplier"`
	Status string `json:"status,omitempty" validate:"omitempty,oneof=Pending Approved Rejected"`
}
