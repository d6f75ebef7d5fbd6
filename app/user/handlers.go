package user

import (
	"net/http"

	"github.com/joefazee/foresight/internal/sanitizer"
	"github.com/joefazee/foresight/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/joefazee/foresight/app/api"
)

// Handler handles HTTP requests for user operations.
type Handler struct {
	service   Service
	sanitizer sanitizer.HTMLStripperer
}

// NewHandler creates a new user handler.
func NewHandler(service Service, s sanitizer.HTMLStripperer) *Handler {
	return &Handler{service: service, sanitizer: s}
}

// Register creates a new bettor account.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	if !req.Validate(v, h.sanitizer) {
		api.ValidationErrorResponse(c, v.Errors)
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to register user")
		return
	}

	api.CreatedResponse(c, "User registered successfully", user)
}

// Login authenticates a user and issues an access token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	if !req.Validate(v) {
		api.ValidationErrorResponse(c, v.Errors)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		api.UnauthorizedResponse(c)
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Login successful", resp)
}

// RequestPasswordReset sends a password reset email if the account exists.
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		api.InternalErrorResponse(c, "Failed to process request")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Password reset email sent", nil)
}

// ResetPassword sets a new password using a valid reset token.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req SetNewPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		api.InternalErrorResponse(c, "Failed to reset password")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Password reset successfully", nil)
}

// GetProfile returns the authenticated user's profile.
func (h *Handler) GetProfile(c *gin.Context) {
	u := ContextGetUser(c)

	profile, err := h.service.GetProfile(c.Request.Context(), u.ID)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to load profile")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Profile retrieved", profile)
}
