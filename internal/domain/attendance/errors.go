package attendance

import "errors"

// Attendance domain errors
var (
	// Clock transition errors
	ErrAlreadyClockedIn    = errors.New("already clocked in")
	ErrNotClockedIn        = errors.New("no active clock-in record found")
	ErrBreakAlreadyStarted = errors.New("break already started")
	ErrBreakAlreadyTaken   = errors.New("break already taken for this session")
	ErrNoActiveBreak       = errors.New("no active break found")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrSummaryForbidden   = errors.New("not allowed to view another employee's attendance summary")
)
