package attendance

import (
	"strings"

	"github.com/aiaugments-collab/Augment-HR-sub002/internal/pkg/validator"
)

// ========================================
// CLOCK ACTION DTOs
// ========================================

const maxNotesLength = 1000

type ClockInRequest struct {
	Notes *string `json:"notes,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Notes != nil && len(*r.Notes) > maxNotesLength {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	Notes *string `json:"notes,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Notes != nil && len(*r.Notes) > maxNotesLength {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID                  string  `json:"id"`
	EmployeeID          string  `json:"employee_id"`
	EmployeeName        *string `json:"employee_name,omitempty"`
	ClockInTime         string  `json:"clock_in_time"`
	ClockOutTime        *string `json:"clock_out_time,omitempty"`
	BreakStartTime      *string `json:"break_start_time,omitempty"`
	BreakEndTime        *string `json:"break_end_time,omitempty"`
	Status              string  `json:"status"`
	TotalWorkingMinutes *int    `json:"total_working_minutes,omitempty"`
	TotalBreakMinutes   *int    `json:"total_break_minutes,omitempty"`
	Notes               *string `json:"notes,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// ========================================
// STATUS DTOs
// ========================================

type EmployeeInfo struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Designation string `json:"designation"`
}

type StatusResponse struct {
	Employee     EmployeeInfo        `json:"employee"`
	ActiveRecord *AttendanceResponse `json:"active_record,omitempty"`
	Status       string              `json:"status"`
}

// ========================================
// HISTORY DTOs
// ========================================

type HistoryFilter struct {
	// Search & Filter
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting (always by clock-in time)
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.EmployeeID != nil && *f.EmployeeID != "" && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	// Status filter covers stored statuses only; break_end is transient
	if f.Status != nil {
		validStatuses := []string{
			string(StatusClockedIn),
			string(StatusBreakStart),
			string(StatusClockedOut),
		}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: clocked_in, break_start, clocked_out",
			})
		}
	}

	// Date validation
	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ========================================
// SUMMARY DTOs
// ========================================

type SummaryRequest struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Month      *int    `json:"month,omitempty"` // 1-12, defaults to current
	Year       *int    `json:"year,omitempty"`  // defaults to current
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != nil && *r.EmployeeID != "" && !validator.IsValidUUID(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if r.Month != nil && (*r.Month < 1 || *r.Month > 12) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if r.Year != nil && (*r.Year < 2000 || *r.Year > 2100) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SummaryResponse struct {
	EmployeeID          string               `json:"employee_id"`
	EmployeeName        string               `json:"employee_name,omitempty"`
	Month               int                  `json:"month"`
	Year                int                  `json:"year"`
	TotalDaysWorked     int                  `json:"total_days_worked"`
	TotalWorkingHours   int                  `json:"total_working_hours"`
	TotalWorkingMinutes int                  `json:"total_working_minutes"` // remainder after the hours split

	TotalBreakMinutes   int                  `json:"total_break_minutes"`
	AverageWorkingHours float64              `json:"average_working_hours"`
	RecentRecords       []AttendanceResponse `json:"recent_records"`
}
