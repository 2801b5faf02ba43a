package handler

import (
	"net/http"

	"health-info-api/internal/delivery/dto"
	"health-info-api/internal/delivery/http/middleware"
	"health-info-api/internal/usecase"
	"health-info-api/pkg/response"
	"health-info-api/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

// Register handles client registration
// @Summary Register a new client
// @Description Create a user account with its client profile
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.authUsecase.Register(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to register user")
		return
	}

	response.Success(w, http.StatusCreated, "User registered successfully", user)
}

// Login handles user login
// @Summary Login user
// @Description Login with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	login, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to login")
		return
	}

	response.Success(w, http.StatusOK, "Login successful", login)
}

// Logout handles user logout
// @Summary Logout user
// @Description Revoke the session of the presented token
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := middleware.GetTokenIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	if err := h.authUsecase.Logout(r.Context(), tokenID); err != nil {
		response.InternalServerError(w, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", nil)
}

// VerifyAccount consumes a verification token
// @Summary Verify account
// @Tags Auth
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /verify [post]
func (h *AuthHandler) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	result, err := h.authUsecase.VerifyAccount(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, err, "Failed to verify account")
		return
	}

	message := "Account verified successfully"
	if result.AlreadyVerified {
		message = "Account is already verified"
	}
	response.Success(w, http.StatusOK, message, result)
}

// ResendVerification issues a new verification email
// @Summary Resend verification email
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.EmailRequest true "Email Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /resend-verification [post]
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	result, err := h.authUsecase.RequestVerificationEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, err, "Failed to resend verification email")
		return
	}

	response.Success(w, http.StatusOK, "Verification email processed", result)
}

// ForgotPassword issues a password reset email
// @Summary Request password reset
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.EmailRequest true "Email Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	result, err := h.authUsecase.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		writeError(w, err, "Failed to process password reset")
		return
	}

	response.Success(w, http.StatusOK, "Password reset email processed", result)
}

// ResetPassword applies a new password using a reset token
// @Summary Reset password
// @Tags Auth
// @Accept json
// @Produce json
// @Param token query string true "Reset token"
// @Param request body dto.ResetPasswordRequest true "Reset Password Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /reset-password [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	if err := h.authUsecase.ResetPassword(r.Context(), r.URL.Query().Get("token"), req.NewPassword); err != nil {
		writeError(w, err, "Failed to reset password")
		return
	}

	response.Success(w, http.StatusOK, "Password reset successfully", nil)
}
