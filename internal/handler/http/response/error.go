package response

import (
	"errors"
	"net/http"

	"github.com/aiaugments-collab/Augment-HR-sub002/internal/domain/attendance"
	"github.com/aiaugments-collab/Augment-HR-sub002/internal/domain/employee"
	"github.com/aiaugments-collab/Augment-HR-sub002/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Attendance domain errors
	switch {
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in. Please clock out first.")
	case errors.Is(err, attendance.ErrNotClockedIn):
		BadRequest(w, "No active clock-in record found. Please clock in first.", nil)
	case errors.Is(err, attendance.ErrBreakAlreadyStarted):
		BadRequest(w, "Break already started.", nil)
	case errors.Is(err, attendance.ErrBreakAlreadyTaken):
		BadRequest(w, "Break already taken for this session.", nil)
	case errors.Is(err, attendance.ErrNoActiveBreak):
		BadRequest(w, "No active break found. Please start break first.", nil)
	case errors.Is(err, attendance.ErrSummaryForbidden):
		Forbidden(w, "You are not allowed to view this employee's summary")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
