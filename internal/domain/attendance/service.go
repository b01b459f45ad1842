package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance tracking.
// The caller identity (employee, company, role) is taken from the request
// context; credentials are validated upstream.
type AttendanceService interface {
	// ClockIn opens a new work session for the caller
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)

	// ClockOut closes the caller's open session and derives durations
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)

	// StartBreak begins the single break of the caller's open session
	StartBreak(ctx context.Context) (AttendanceResponse, error)

	// EndBreak terminates the caller's active break
	EndBreak(ctx context.Context) (AttendanceResponse, error)

	// GetStatus reports the caller's current clock state; absence of an
	// open record is a valid clocked_out answer, never an error
	GetStatus(ctx context.Context) (StatusResponse, error)

	// GetHistory lists attendance records. Callers without the
	// attendance.view_all capability are silently scoped to their own id.
	GetHistory(ctx context.Context, filter HistoryFilter) (ListAttendanceResponse, error)

	// GetSummary aggregates closed records for an (employee, month, year)
	// window. Viewing another employee requires elevated capability.
	GetSummary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)
}
