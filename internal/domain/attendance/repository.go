package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Mutating methods re-verify the record state in their WHERE clause so that
// concurrent transitions resolve to exactly one winner; the losers receive
// the matching domain error.
type AttendanceRepository interface {
	// Create inserts a new open record. It fails with ErrAlreadyClockedIn
	// when an open record already exists for the employee; this is enforced
	// at the storage layer, not just in application logic.
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// FindOpenRecord returns the single record for the employee with no
	// clock-out time, or nil when the employee is clocked out.
	FindOpenRecord(ctx context.Context, employeeID string) (*Attendance, error)

	// Close persists a finalized record. The update is guarded on the record
	// still being open; a lost race yields ErrNotClockedIn.
	Close(ctx context.Context, att Attendance) error

	// SetBreakStart persists the break_start transition, guarded on the
	// record being open, clocked_in and break-free.
	SetBreakStart(ctx context.Context, att Attendance) error

	// SetBreakEnd persists the break end, guarded on an active break.
	SetBreakEnd(ctx context.Context, att Attendance) error

	// List retrieves records matching the filter, newest clock-in first,
	// with the total match count for pagination.
	List(ctx context.Context, filter HistoryFilter, companyID string) ([]Attendance, int64, error)

	// ListByPeriod returns all records whose clock-in falls within
	// [from, to], newest first. Used for monthly summaries.
	ListByPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)

	// FindStaleOpenRecords returns open records whose clock-in is older than
	// the cutoff. Used by the auto-close maintenance job.
	FindStaleOpenRecords(ctx context.Context, olderThan time.Time) ([]Attendance, error)
}
