package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joefazee/foresight/internal/sanitizer"
	"github.com/joefazee/foresight/internal/validator"
)

// RegisterUserRequest represents the request to create a user.
type RegisterUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (r *RegisterUserRequest) Validate(v *validator.Validator, s sanitizer.HTMLStripperer) bool {
	r.FirstName = s.StripHTML(r.FirstName)
	r.LastName = s.StripHTML(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(s.StripHTML(r.Email)))

	v.Check(r.FirstName != "", "first_name", "first name is required")
	v.Check(r.LastName != "", "last_name", "last name is required")
	v.Check(validator.MinRunes(r.FirstName, 2) && validator.MaxRunes(r.FirstName, 150), "first_name", "first name must be between 2 and 150 characters")
	v.Check(validator.MinRunes(r.LastName, 2) && validator.MaxRunes(r.LastName, 150), "last_name", "last name must be between 2 and 150 characters")
	v.Check(validator.IsEmail(r.Email), "email", "email is invalid")
	v.Check(len(r.Password) >= 8, "password", "password must be at least 8 characters")

	return v.Valid()
}

// LoginRequest represents the request to log in.
type LoginRequest struct {
	Identity string `json:"identity" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r *LoginRequest) Validate(v *validator.Validator) bool {
	v.Check(r.Identity != "", "identity", "identity is required")
	v.Check(r.Password != "", "password", "password is required")
	return v.Valid()
}

// PasswordResetRequest represents the request to initiate a password reset.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SetNewPasswordRequest represents the request to set a new password.
type SetNewPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// Response represents the response for user data.
type Response struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	User        Response `json:"user"`
}
