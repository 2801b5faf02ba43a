package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"health-info-api/internal/delivery/http/middleware"
	"health-info-api/internal/usecase"
	"health-info-api/pkg/response"
	"health-info-api/pkg/validator"
)

// statusFor maps a usecase error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, usecase.ErrRole),
		errors.Is(err, usecase.ErrInvalidToken):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// writeError renders business errors with their own message. Anything else
// is reported as fallback so store errors never reach the client.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var ucErr *usecase.Error
	if errors.As(err, &ucErr) {
		response.Error(w, statusFor(ucErr), ucErr.Message, nil)
		return
	}
	response.InternalServerError(w, fallback)
}

// decodeAndValidate reads a JSON body into req and runs the struct
// validation. It writes the error response itself and reports false on
// failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}

	return true
}

func actorFromRequest(r *http.Request) usecase.Actor {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())
	return usecase.Actor{UserID: userID, Role: role}
}

func parsePagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return usecase.NormalizePage(page, limit)
}
