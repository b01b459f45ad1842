package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/aiaugments-collab/Augment-HR-sub002/internal/domain/attendance"
	"github.com/aiaugments-collab/Augment-HR-sub002/internal/domain/employee"
	"github.com/aiaugments-collab/Augment-HR-sub002/internal/domain/user"
	"github.com/aiaugments-collab/Augment-HR-sub002/internal/pkg/metrics"
	"github.com/go-chi/jwtauth/v5"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

type callerIdentity struct {
	EmployeeID string
	CompanyID  string
	Role       user.Role
}

// callerFromContext extracts the authenticated caller from the verified
// token claims. The handler layer guarantees a token is present; missing
// identity claims here mean a malformed token, not an unauthenticated one.
func callerFromContext(ctx context.Context) (callerIdentity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return callerIdentity{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return callerIdentity{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return callerIdentity{}, fmt.Errorf("company_id claim is missing or invalid")
	}

	role, _ := claims["role"].(string)

	return callerIdentity{
		EmployeeID: employeeID,
		CompanyID:  companyID,
		Role:       user.Role(role),
	}, nil
}

func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:                  att.ID,
		EmployeeID:          att.EmployeeID,
		EmployeeName:        att.EmployeeName,
		ClockInTime:         att.ClockInTime.Format("2006-01-02 15:04:05"),
		ClockOutTime:        timePtrToString(att.ClockOutTime),
		BreakStartTime:      timePtrToString(att.BreakStartTime),
		BreakEndTime:        timePtrToString(att.BreakEndTime),
		Status:              string(att.Status),
		TotalWorkingMinutes: att.TotalWorkingMinutes,
		TotalBreakMinutes:   att.TotalBreakMinutes,
		Notes:               att.Notes,
		CreatedAt:           att.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:           att.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (resp attendance.AttendanceResponse, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordClockEvent("clock_in", err)
		metrics.ObserveOperation("clock_in", time.Since(start).Seconds())
	}()

	if err = req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	caller, err := callerFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err = a.EmployeeRepository.GetByID(ctx, caller.EmployeeID, caller.CompanyID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	nowUTC := time.Now().UTC()

	newRecord := attendance.Attendance{
		EmployeeID:  caller.EmployeeID,
		CompanyID:   caller.CompanyID,
		ClockInTime: nowUTC,
		Status:      attendance.StatusClockedIn,
		Notes:       req.Notes,
	}

	created, err := a.AttendanceRepository.Create(ctx, newRecord)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(created), nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (resp attendance.AttendanceResponse, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordClockEvent("clock_out", err)
		metrics.ObserveOperation("clock_out", time.Since(start).Seconds())
	}()

	if err = req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	caller, err := callerFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	open, err := a.AttendanceRepository.FindOpenRecord(ctx, caller.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if open == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotClockedIn
	}

	nowUTC := time.Now().UTC()

	notes := ""
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err = open.Close(nowUTC, notes); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if err = a.AttendanceRepository.Close(ctx, *open); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(*open), nil
}

// StartBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context) (resp attendance.AttendanceResponse, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordClockEvent("break_start", err)
		metrics.ObserveOperation("break_start", time.Since(start).Seconds())
	}()

	caller, err := callerFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	open, err := a.AttendanceRepository.FindOpenRecord(ctx, caller.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if open == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotClockedIn
	}

	nowUTC := time.Now().UTC()

	if err = open.StartBreak(nowUTC); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if err = a.AttendanceRepository.SetBreakStart(ctx, *open); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(*open), nil
}

// EndBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context) (resp attendance.AttendanceResponse, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordClockEvent("break_end", err)
		metrics.ObserveOperation("break_end", time.Since(start).Seconds())
	}()

	caller, err := callerFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	open, err := a.AttendanceRepository.FindOpenRecord(ctx, caller.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if open == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoActiveBreak
	}

	nowUTC := time.Now().UTC()

	if err = open.EndBreak(nowUTC); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if err = a.AttendanceRepository.SetBreakEnd(ctx, *open); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(*open), nil
}

// GetStatus implements attendance.AttendanceService. No open record is a
// normal clocked_out answer, never an error.
func (a *AttendanceServiceImpl) GetStatus(ctx context.Context) (attendance.StatusResponse, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, caller.EmployeeID, caller.CompanyID)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	resp := attendance.StatusResponse{
		Employee: attendance.EmployeeInfo{
			ID:          emp.ID,
			FullName:    emp.FullName,
			Designation: emp.Designation,
		},
		Status: string(attendance.StatusClockedOut),
	}

	open, err := a.AttendanceRepository.FindOpenRecord(ctx, caller.EmployeeID)
	if err != nil {
		return attendance.StatusResponse{}, err
	}
	if open != nil {
		active := mapAttendanceToResponse(*open)
		resp.ActiveRecord = &active
		resp.Status = string(open.Status)
	}

	return resp, nil
}

// GetHistory implements attendance.AttendanceService. Callers without the
// view-all capability are silently scoped to their own records; the filter
// they sent is overridden, not rejected.
func (a *AttendanceServiceImpl) GetHistory(ctx context.Context, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	caller, err := callerFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if !user.HasPermission(caller.Role, user.PermissionAttendanceViewAll) {
		own := caller.EmployeeID
		filter.EmployeeID = &own
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter, caller.CompanyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapAttendanceToResponse(rec))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}, nil
}

// GetSummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetSummary(ctx context.Context, req attendance.SummaryRequest) (attendance.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	caller, err := callerFromContext(ctx)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	targetEmployeeID := caller.EmployeeID
	if req.EmployeeID != nil && *req.EmployeeID != "" {
		targetEmployeeID = *req.EmployeeID
	}

	// Unlike history, requesting someone else's summary without the
	// view-all capability is an explicit refusal, not a silent rescope.
	if targetEmployeeID != caller.EmployeeID && !user.HasPermission(caller.Role, user.PermissionAttendanceViewAll) {
		return attendance.SummaryResponse{}, attendance.ErrSummaryForbidden
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, targetEmployeeID, caller.CompanyID)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	nowUTC := time.Now().UTC()
	month := int(nowUTC.Month())
	year := nowUTC.Year()
	if req.Month != nil {
		month = *req.Month
	}
	if req.Year != nil {
		year = *req.Year
	}

	from, to := attendance.MonthWindow(year, time.Month(month))

	records, err := a.AttendanceRepository.ListByPeriod(ctx, targetEmployeeID, from, to)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	summary := attendance.Summarize(records)

	recent := make([]attendance.AttendanceResponse, 0, attendance.SummaryPreviewLimit)
	for _, rec := range records {
		if len(recent) == attendance.SummaryPreviewLimit {
			break
		}
		recent = append(recent, mapAttendanceToResponse(rec))
	}

	return attendance.SummaryResponse{
		EmployeeID:          emp.ID,
		EmployeeName:        emp.FullName,
		Month:               month,
		Year:                year,
		TotalDaysWorked:     summary.TotalDaysWorked,
		TotalWorkingHours:   summary.TotalWorkingMinutes / 60,
		TotalWorkingMinutes: summary.TotalWorkingMinutes % 60,
		TotalBreakMinutes:   summary.TotalBreakMinutes,
		AverageWorkingHours: summary.AverageWorkingHours,
		RecentRecords:       recent,
	}, nil
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
	}
}
