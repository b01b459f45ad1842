package attendance

import (
	"math"
	"time"
)

// SummaryPreviewLimit bounds the recent-record preview returned with a
// monthly summary.
const SummaryPreviewLimit = 5

// Summary holds the aggregate figures for one (employee, month, year)
// window. It is derived on demand, never persisted.
type Summary struct {
	TotalDaysWorked     int
	TotalWorkingMinutes int
	TotalBreakMinutes   int
	AverageWorkingHours float64
}

// Summarize aggregates closed records only; an in-progress session
// contributes nothing until it is closed. Days worked counts distinct UTC
// calendar days with at least one closed record, and the per-day average is
// zero when there are none.
func Summarize(records []Attendance) Summary {
	days := make(map[string]struct{})
	var workMinutes, breakMinutes int

	for _, rec := range records {
		if rec.IsOpen() {
			continue
		}
		if rec.TotalWorkingMinutes != nil {
			workMinutes += *rec.TotalWorkingMinutes
		}
		if rec.TotalBreakMinutes != nil {
			breakMinutes += *rec.TotalBreakMinutes
		}
		days[rec.ClockInTime.UTC().Format("2006-01-02")] = struct{}{}
	}

	summary := Summary{
		TotalDaysWorked:     len(days),
		TotalWorkingMinutes: workMinutes,
		TotalBreakMinutes:   breakMinutes,
	}
	if len(days) > 0 {
		avg := float64(workMinutes) / 60.0 / float64(len(days))
		summary.AverageWorkingHours = math.Round(avg*100) / 100
	}
	return summary
}

// MonthWindow returns the first and last instant of the given month in UTC.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return from, to
}
