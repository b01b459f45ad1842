package attendance

import (
	"strings"
	"time"
)

type Status string

const (
	StatusClockedIn  Status = "clocked_in"
	StatusBreakStart Status = "break_start"
	StatusClockedOut Status = "clocked_out"

	// StatusBreakEnd is a transient label used in status summaries only.
	// It is never stored; a record returns to clocked_in after a break ends.
	StatusBreakEnd Status = "break_end"
)

type Attendance struct {
	ID                  string
	EmployeeID          string
	CompanyID           string
	ClockInTime         time.Time
	ClockOutTime        *time.Time
	BreakStartTime      *time.Time
	BreakEndTime        *time.Time
	Status              Status
	TotalWorkingMinutes *int
	TotalBreakMinutes   *int
	Notes               *string
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// DTO
	EmployeeName *string
}

// IsOpen reports whether the record represents an in-progress session.
func (a *Attendance) IsOpen() bool {
	return a.ClockOutTime == nil
}

// StartBreak moves an open clocked_in record into break_start.
// Only one break per session is modeled.
func (a *Attendance) StartBreak(now time.Time) error {
	if !a.IsOpen() || a.Status == StatusClockedOut {
		return ErrNotClockedIn
	}
	if a.Status == StatusBreakStart {
		return ErrBreakAlreadyStarted
	}
	if a.BreakStartTime != nil {
		return ErrBreakAlreadyTaken
	}
	a.BreakStartTime = &now
	a.Status = StatusBreakStart
	a.UpdatedAt = now
	return nil
}

// EndBreak terminates the active break and returns the record to clocked_in.
func (a *Attendance) EndBreak(now time.Time) error {
	if !a.IsOpen() || a.Status != StatusBreakStart || a.BreakStartTime == nil {
		return ErrNoActiveBreak
	}
	a.BreakEndTime = &now
	a.Status = StatusClockedIn
	a.UpdatedAt = now
	return nil
}

// Close finalizes an open session: the clock-out timestamp is set, break and
// working durations are derived in whole minutes, and optional notes are
// appended. A break still running at clock-out is ended at the clock-out
// instant so the break window stays inside the session. After Close the
// record is immutable.
func (a *Attendance) Close(now time.Time, notes string) error {
	if !a.IsOpen() || a.Status == StatusClockedOut {
		return ErrNotClockedIn
	}
	if a.Status == StatusBreakStart && a.BreakEndTime == nil {
		a.BreakEndTime = &now
	}

	breakMinutes := 0
	if a.BreakStartTime != nil && a.BreakEndTime != nil {
		breakMinutes = wholeMinutes(*a.BreakStartTime, *a.BreakEndTime)
	}
	workingMinutes := wholeMinutes(a.ClockInTime, now) - breakMinutes
	if workingMinutes < 0 {
		workingMinutes = 0
	}

	a.ClockOutTime = &now
	a.TotalWorkingMinutes = &workingMinutes
	a.TotalBreakMinutes = &breakMinutes
	a.Status = StatusClockedOut
	a.appendNotes(notes)
	a.UpdatedAt = now
	return nil
}

func (a *Attendance) appendNotes(notes string) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return
	}
	if a.Notes == nil || *a.Notes == "" {
		a.Notes = &notes
		return
	}
	combined := *a.Notes + "\n" + notes
	a.Notes = &combined
}

// wholeMinutes returns the floor of the elapsed minutes between from and to.
// Sessions under one minute report zero, by contract.
func wholeMinutes(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}
