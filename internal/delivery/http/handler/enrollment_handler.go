package handler

import (
	"net/http"
	"strconv"

	"health-info-api/internal/delivery/dto"
	"health-info-api/internal/usecase"
	"health-info-api/pkg/response"
	"health-info-api/pkg/validator"

	"github.com/gorilla/mux"
)

type EnrollmentHandler struct {
	enrollmentUsecase usecase.EnrollmentUsecase
	validator         *validator.CustomValidator
}

func NewEnrollmentHandler(enrollmentUsecase usecase.EnrollmentUsecase, validator *validator.CustomValidator) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentUsecase: enrollmentUsecase,
		validator:         validator,
	}
}

func enrollmentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["enrollmentId"], 10, 64)
	if err != nil || id < 1 {
		response.Error(w, http.StatusBadRequest, "Invalid enrollment ID", nil)
		return 0, false
	}
	return id, true
}

// Create handles enrollment creation
// @Summary Enroll in a program
// @Tags Enrollments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEnrollmentRequest true "Create Enrollment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /enrollment [post]
func (h *EnrollmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEnrollmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	enrollment, err := h.enrollmentUsecase.Create(r.Context(), actorFromRequest(r), &req)
	if err != nil {
		writeError(w, err, "Failed to create enrollment")
		return
	}

	response.Success(w, http.StatusCreated, "Enrollment created successfully", enrollment)
}

func (h *EnrollmentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.enrollmentUsecase.ListAll(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get enrollments")
		return
	}

	response.Success(w, http.StatusOK, "Enrollments retrieved successfully", enrollments)
}

func (h *EnrollmentHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.enrollmentUsecase.ListByUser(r.Context(), actorFromRequest(r), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err, "Failed to get enrollments")
		return
	}

	response.Success(w, http.StatusOK, "Enrollments retrieved successfully", enrollments)
}

func (h *EnrollmentHandler) GetByProgram(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.enrollmentUsecase.ListByProgram(r.Context(), mux.Vars(r)["programId"])
	if err != nil {
		writeError(w, err, "Failed to get enrollments")
		return
	}

	response.Success(w, http.StatusOK, "Enrollments retrieved successfully", enrollments)
}

func (h *EnrollmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := enrollmentID(w, r)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentUsecase.Get(r.Context(), actorFromRequest(r), id)
	if err != nil {
		writeError(w, err, "Failed to get enrollment")
		return
	}

	response.Success(w, http.StatusOK, "Enrollment retrieved successfully", enrollment)
}

// Update handles partial enrollment updates
// @Summary Update enrollment
// @Tags Enrollments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param enrollmentId path int true "Enrollment ID"
// @Param request body dto.UpdateEnrollmentRequest true "Update Enrollment Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /{enrollmentId} [patch]
func (h *EnrollmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := enrollmentID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateEnrollmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	enrollment, err := h.enrollmentUsecase.Update(r.Context(), actorFromRequest(r), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update enrollment")
		return
	}

	response.Success(w, http.StatusOK, "Enrollment updated successfully", enrollment)
}

func (h *EnrollmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := enrollmentID(w, r)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentUsecase.Complete(r.Context(), actorFromRequest(r), id)
	if err != nil {
		writeError(w, err, "Failed to complete enrollment")
		return
	}

	response.Success(w, http.StatusOK, "Enrollment completed successfully", enrollment)
}

func (h *EnrollmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := enrollmentID(w, r)
	if !ok {
		return
	}

	if err := h.enrollmentUsecase.Delete(r.Context(), actorFromRequest(r), id); err != nil {
		writeError(w, err, "Failed to delete enrollment")
		return
	}

	response.Success(w, http.StatusOK, "Enrollment deleted successfully", nil)
}
