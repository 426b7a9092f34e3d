package auth

import (
	"github.com/BlessingGianna7/rest-pms-system/internal/users"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the access token and the authenticated user.
type LoginResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}

// RegisterRequest contains the payload required to open an account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterResponse reports the new account awaiting verification.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  uint   `json:"userId"`
}

// VerifyOTPRequest confirms an email address with the mailed passcode.
type VerifyOTPRequest struct {
	UserID  uint   `json:"userId" validate:"required"`
	OTPCode string `json:"otpCode" validate:"required,numeric"`
}

// ResendOTPRequest asks for a fresh passcode.
type ResendOTPRequest struct {
	UserID uint `json:"userId" validate:"required"`
}
