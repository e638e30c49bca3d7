package domain

import (
	"errors"
	"time"
)

const (
	SubscriptionFree    = "free"
	SubscriptionMonthly = "monthly"
	SubscriptionAnnual  = "annual"
)

var (
	MessageSuccessRegister       = "user registered successfully"
	MessageSuccessLogin          = "user logged in successfully"
	MessageSuccessLogout         = "user logged out successfully"
	MessageSuccessGetProfile     = "user profile retrieved successfully"
	MessageSuccessForgotPassword = "password reset link sent"
	MessageSuccessResetPassword  = "password reset successfully"

	MessageFailedRegister       = "failed to register user"
	MessageFailedLogin          = "failed to login"
	MessageFailedGetProfile     = "failed to retrieve user profile"
	MessageFailedForgotPassword = "failed to send password reset link"
	MessageFailedResetPassword  = "failed to reset password"

	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrHashPassword       = errors.New("failed to hash password")
	ErrSendEmail          = errors.New("failed to send email")
)

type (
	RegisterRequest struct {
		Name     string `json:"name" validate:"required,min=2,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Token    string `json:"token" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	UserResponse struct {
		ID                    string     `json:"id"`
		Name                  string     `json:"name"`
		Email                 string     `json:"email"`
		AvatarURL             string     `json:"avatar_url,omitempty"`
		SubscriptionType      string     `json:"subscription_type"`
		SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
		IsPremium             bool       `json:"is_premium"`
		CreatedAt             time.Time  `json:"created_at"`
	}

	AuthResponse struct {
		User  UserResponse `json:"user"`
		Token string       `json:"token"`
	}
)
