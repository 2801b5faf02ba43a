package handler

import (
	"net/http"

	"health-info-api/internal/delivery/dto"
	"health-info-api/internal/delivery/http/middleware"
	"health-info-api/internal/usecase"
	"health-info-api/pkg/response"
	"health-info-api/pkg/validator"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
}

func NewUserHandler(userUsecase usecase.UserUsecase, validator *validator.CustomValidator) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
	}
}

// GetUser returns a user with the profile of its current role
// @Summary Get user profile
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{userId} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUsecase.GetProfile(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err, "Failed to get user")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}

// UpdateUser applies a partial profile update
// @Summary Update user profile
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body dto.UpdateProfileRequest true "Update Profile Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/{userId} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.UpdateProfile(r.Context(), actorFromRequest(r), mux.Vars(r)["userId"], &req)
	if err != nil {
		writeError(w, err, "Failed to update user")
		return
	}

	response.Success(w, http.StatusOK, "User updated successfully", user)
}

// ChangePassword handles password change; other sessions are signed out
// @Summary Change password
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body dto.ChangePasswordRequest true "Change Password Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/{userId}/password [put]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	tokenID, _ := middleware.GetTokenIDFromContext(r.Context())
	if err := h.userUsecase.ChangePassword(r.Context(), actorFromRequest(r), mux.Vars(r)["userId"], &req, tokenID); err != nil {
		writeError(w, err, "Failed to change password")
		return
	}

	response.Success(w, http.StatusOK, "Password changed successfully", nil)
}

// UpgradeToDoctor handles the client to doctor role change
// @Summary Upgrade client to doctor
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body dto.UpgradeToDoctorRequest true "Upgrade Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/{userId}/upgrade-to-doctor [post]
func (h *UserHandler) UpgradeToDoctor(w http.ResponseWriter, r *http.Request) {
	var req dto.UpgradeToDoctorRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.UpgradeToDoctor(r.Context(), actorFromRequest(r), mux.Vars(r)["userId"], &req)
	if err != nil {
		writeError(w, err, "Failed to upgrade user")
		return
	}

	response.Success(w, http.StatusOK, "User upgraded to doctor successfully", user)
}

// ListUsers handles the paginated user listing
// @Summary List users
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	users, total, err := h.userUsecase.ListUsers(r.Context(), page, limit)
	if err != nil {
		writeError(w, err, "Failed to get users")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Users retrieved successfully", users, response.NewMeta(page, limit, total))
}

// SearchUsers matches users by email or id, optionally narrowed by role
// @Summary Search users
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param query query string false "Substring of email or user id"
// @Param role query string false "client, doctor or admin"
// @Success 200 {object} response.Response
// @Router /users/search [get]
func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	users, err := h.userUsecase.SearchUsers(r.Context(), q.Get("query"), q.Get("role"))
	if err != nil {
		writeError(w, err, "Failed to search users")
		return
	}

	response.Success(w, http.StatusOK, "Users retrieved successfully", users)
}
