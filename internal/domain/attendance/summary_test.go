package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func closedRecord(clockIn time.Time, workMinutes, breakMinutes int) Attendance {
	clockOut := clockIn.Add(time.Duration(workMinutes+breakMinutes) * time.Minute)
	return Attendance{
		EmployeeID:          "emp-1",
		ClockInTime:         clockIn,
		ClockOutTime:        &clockOut,
		Status:              StatusClockedOut,
		TotalWorkingMinutes: &workMinutes,
		TotalBreakMinutes:   &breakMinutes,
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.TotalDaysWorked)
	assert.Equal(t, 0, s.TotalWorkingMinutes)
	assert.Equal(t, 0, s.TotalBreakMinutes)
	assert.Equal(t, 0.0, s.AverageWorkingHours)
}

func TestSummarize_SkipsOpenRecords(t *testing.T) {
	records := []Attendance{
		closedRecord(ts(9, 0), 480, 30),
		openRecord(ts(9, 0).AddDate(0, 0, 1)),
	}

	s := Summarize(records)

	assert.Equal(t, 1, s.TotalDaysWorked)
	assert.Equal(t, 480, s.TotalWorkingMinutes)
	assert.Equal(t, 30, s.TotalBreakMinutes)
}

func TestSummarize_DistinctDays(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	records := []Attendance{
		closedRecord(day1, 240, 0),
		closedRecord(day1.Add(5*time.Hour), 180, 0), // same calendar day
		closedRecord(day1.AddDate(0, 0, 1), 480, 60),
	}

	s := Summarize(records)

	assert.Equal(t, 2, s.TotalDaysWorked)
	assert.Equal(t, 900, s.TotalWorkingMinutes)
	assert.Equal(t, 60, s.TotalBreakMinutes)
	// 15h over 2 days
	assert.Equal(t, 7.5, s.AverageWorkingHours)
}

func TestSummarize_AverageRoundedToTwoDecimals(t *testing.T) {
	records := []Attendance{
		closedRecord(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), 500, 0),
		closedRecord(time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC), 500, 0),
		closedRecord(time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC), 500, 0),
	}

	s := Summarize(records)

	// 1500 minutes = 25h over 3 days = 8.333...
	assert.Equal(t, 8.33, s.AverageWorkingHours)
}

func TestMonthWindow(t *testing.T) {
	from, to := MonthWindow(2026, time.February)

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.True(t, to.After(time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC)))
	assert.True(t, to.Before(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMonthWindow_December(t *testing.T) {
	from, to := MonthWindow(2025, time.December)

	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.True(t, to.Before(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}
