package usecase

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error kinds. Every error returned by a usecase for a business rule wraps
// exactly one of these, so callers can map them with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrAuth         = errors.New("authentication failed")
	ErrRole         = errors.New("role error")
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("forbidden")
)

// Error is a business error with a message that is safe to show to API
// clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrMissingFields      = newError(ErrValidation, "All required fields must be provided")
	ErrEmailAlreadyExists = newError(ErrConflict, "Email already exists")
	ErrUserNotFound       = newError(ErrNotFound, "User not found")
	ErrProfileNotFound    = newError(ErrNotFound, "Profile not found")
	ErrInvalidRole        = newError(ErrValidation, "Role must be one of: client, doctor, admin")

	// ErrUnknownEmail and ErrWrongPassword share a message so a caller cannot
	// tell which one happened.
	ErrUnknownEmail       = newError(ErrAuth, "Invalid credentials")
	ErrWrongPassword      = newError(ErrAuth, "Invalid credentials")
	ErrAccountDeactivated = newError(ErrAuth, "Account is deactivated")
	ErrCurrentPassword    = newError(ErrAuth, "Current password is incorrect")

	ErrInvalidVerificationToken = newError(ErrInvalidToken, "Invalid or expired verification token")
	ErrInvalidResetToken        = newError(ErrInvalidToken, "Invalid or expired reset token")
	ErrAlreadyVerified          = newError(ErrValidation, "Account is already verified")

	ErrNotClient            = newError(ErrRole, "Only clients can be upgraded to doctor")
	ErrLicenseAlreadyExists = newError(ErrConflict, "License number already exists")

	ErrProgramNotFound   = newError(ErrNotFound, "Program not found")
	ErrProgramInactive   = newError(ErrValidation, "Program is not active")
	ErrInvalidDifficulty = newError(ErrValidation, "Difficulty must be one of: Beginner, Intermediate, Advanced")

	ErrEnrollmentNotFound  = newError(ErrNotFound, "Enrollment not found")
	ErrAlreadyEnrolled     = newError(ErrConflict, "User is already enrolled in this program")
	ErrInvalidProgress     = newError(ErrValidation, "Progress must be between 0 and 100")
	ErrInvalidStatus       = newError(ErrValidation, "Status must be active or inactive; use the complete endpoint to finish an enrollment")
	ErrEnrollmentCompleted = newError(ErrValidation, "Completed enrollments cannot be updated")

	ErrAuditLogNotFound = newError(ErrNotFound, "Audit log not found")

	ErrAccessDenied = newError(ErrForbidden, "You don't have permission to access this resource")
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
