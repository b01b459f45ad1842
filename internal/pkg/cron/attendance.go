package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aiaugments-collab/Augment-HR-sub002/internal/domain/attendance"
)

// AttendanceJobs holds maintenance jobs for attendance records.
type AttendanceJobs struct {
	attendanceRepo      attendance.AttendanceRepository
	autoCloseAfterHours int
}

func NewAttendanceJobs(attendanceRepo attendance.AttendanceRepository, autoCloseAfterHours int) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo:      attendanceRepo,
		autoCloseAfterHours: autoCloseAfterHours,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_attendances", 1*time.Hour, j.AutoCloseStaleAttendances)
}

// AutoCloseStaleAttendances force-closes sessions left open past the cutoff,
// typically employees who forgot to clock out. The close goes through the
// same guarded update as a regular clock-out, so a concurrent clock-out
// never gets double-applied.
func (j *AttendanceJobs) AutoCloseStaleAttendances(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-time.Duration(j.autoCloseAfterHours) * time.Hour)

	staleSessions, err := j.attendanceRepo.FindStaleOpenRecords(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to get stale sessions: %w", err)
	}

	if len(staleSessions) == 0 {
		return nil
	}

	closedCount := 0
	for _, session := range staleSessions {
		nowUTC := time.Now().UTC()

		if err := session.Close(nowUTC, "Auto-closed by system"); err != nil {
			slog.Error("Cron: Failed to finalize stale session", "attendance_id", session.ID, "error", err)
			continue
		}

		if err := j.attendanceRepo.Close(ctx, session); err != nil {
			// A racing clock-out already closed it; nothing left to do.
			slog.Warn("Cron: Skipping stale session", "attendance_id", session.ID, "error", err)
			continue
		}

		closedCount++
	}

	slog.Info("Cron: Auto-closed stale attendances", "found", len(staleSessions), "closed", closedCount)
	return nil
}
