package handler

import (
	"net/http"
	"strconv"

	"health-info-api/internal/delivery/dto"
	"health-info-api/internal/domain/repository"
	"health-info-api/internal/usecase"
	"health-info-api/pkg/response"
	"health-info-api/pkg/validator"

	"github.com/gorilla/mux"
)

type ProgramHandler struct {
	programUsecase usecase.ProgramUsecase
	validator      *validator.CustomValidator
}

func NewProgramHandler(programUsecase usecase.ProgramUsecase, validator *validator.CustomValidator) *ProgramHandler {
	return &ProgramHandler{
		programUsecase: programUsecase,
		validator:      validator,
	}
}

// Create handles program creation
// @Summary Create a health program
// @Tags Programs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateProgramRequest true "Create Program Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /program [post]
func (h *ProgramHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProgramRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	program, err := h.programUsecase.Create(r.Context(), actorFromRequest(r), &req)
	if err != nil {
		writeError(w, err, "Failed to create program")
		return
	}

	response.Success(w, http.StatusCreated, "Program created successfully", program)
}

// GetAll lists the catalog
// @Summary List health programs
// @Tags Programs
// @Produce json
// @Param difficulty query string false "Beginner, Intermediate or Advanced"
// @Param active query bool false "Filter by active flag"
// @Success 200 {object} response.Response
// @Router /program [get]
func (h *ProgramHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var filter repository.ProgramFilter
	q := r.URL.Query()
	if d := q.Get("difficulty"); d != "" {
		filter.Difficulty = &d
	}
	if a := q.Get("active"); a != "" {
		active, err := strconv.ParseBool(a)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid active filter", nil)
			return
		}
		filter.IsActive = &active
	}

	programs, err := h.programUsecase.List(r.Context(), filter)
	if err != nil {
		writeError(w, err, "Failed to get programs")
		return
	}

	response.Success(w, http.StatusOK, "Programs retrieved successfully", programs)
}

func (h *ProgramHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	programs, err := h.programUsecase.ListActive(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get programs")
		return
	}

	response.Success(w, http.StatusOK, "Programs retrieved successfully", programs)
}

func (h *ProgramHandler) GetByDifficulty(w http.ResponseWriter, r *http.Request) {
	programs, err := h.programUsecase.ListByDifficulty(r.Context(), mux.Vars(r)["difficulty"])
	if err != nil {
		writeError(w, err, "Failed to get programs")
		return
	}

	response.Success(w, http.StatusOK, "Programs retrieved successfully", programs)
}

func (h *ProgramHandler) Get(w http.ResponseWriter, r *http.Request) {
	program, err := h.programUsecase.GetByID(r.Context(), mux.Vars(r)["programId"])
	if err != nil {
		writeError(w, err, "Failed to get program")
		return
	}

	response.Success(w, http.StatusOK, "Program retrieved successfully", program)
}

func (h *ProgramHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProgramRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	program, err := h.programUsecase.Update(r.Context(), actorFromRequest(r), mux.Vars(r)["programId"], &req)
	if err != nil {
		writeError(w, err, "Failed to update program")
		return
	}

	response.Success(w, http.StatusOK, "Program updated successfully", program)
}

func (h *ProgramHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.programUsecase.Delete(r.Context(), actorFromRequest(r), mux.Vars(r)["programId"]); err != nil {
		writeError(w, err, "Failed to delete program")
		return
	}

	response.Success(w, http.StatusOK, "Program deleted successfully", nil)
}

// ToggleStatus flips the active flag
// @Summary Toggle program status
// @Tags Programs
// @Security BearerAuth
// @Produce json
// @Param programId path string true "Program ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /program/{programId}/toggle [patch]
func (h *ProgramHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	program, err := h.programUsecase.ToggleStatus(r.Context(), actorFromRequest(r), mux.Vars(r)["programId"])
	if err != nil {
		writeError(w, err, "Failed to toggle program status")
		return
	}

	response.Success(w, http.StatusOK, "Program status updated successfully", program)
}
