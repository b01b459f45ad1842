package attendance

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/aiaugments-collab/Augment-HR-sub002/internal/domain/attendance"
	"github.com/aiaugments-collab/Augment-HR-sub002/internal/domain/employee"
	"github.com/aiaugments-collab/Augment-HR-sub002/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID = "5f6b2a1c-9d3e-4a7b-8c1d-2e3f4a5b6c7d"
	testEmployee  = "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
	testManager   = "9e8d7c6b-5a4f-4e3d-8c2b-1a0f9e8d7c6b"
	testOther     = "2b3c4d5e-6f7a-4b8c-9d0e-1f2a3b4c5d6e"
)

// fakeAttendanceRepo is an in-memory AttendanceRepository that honors the
// same guarantees as the SQL implementation: one open record per employee
// and state re-verification on every mutation.
type fakeAttendanceRepo struct {
	records map[string]attendance.Attendance
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	for _, existing := range f.records {
		if existing.EmployeeID == att.EmployeeID && existing.ClockOutTime == nil {
			return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
		}
	}
	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	att.CreatedAt = att.ClockInTime
	att.UpdatedAt = att.ClockInTime
	f.records[att.ID] = att
	return att, nil
}

func (f *fakeAttendanceRepo) FindOpenRecord(ctx context.Context, employeeID string) (*attendance.Attendance, error) {
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.ClockOutTime == nil {
			copied := rec
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) Close(ctx context.Context, att attendance.Attendance) error {
	stored, ok := f.records[att.ID]
	if !ok || stored.ClockOutTime != nil {
		return attendance.ErrNotClockedIn
	}
	f.records[att.ID] = att
	return nil
}

func (f *fakeAttendanceRepo) SetBreakStart(ctx context.Context, att attendance.Attendance) error {
	stored, ok := f.records[att.ID]
	if !ok || stored.ClockOutTime != nil || stored.Status != attendance.StatusClockedIn || stored.BreakStartTime != nil {
		return attendance.ErrBreakAlreadyStarted
	}
	f.records[att.ID] = att
	return nil
}

func (f *fakeAttendanceRepo) SetBreakEnd(ctx context.Context, att attendance.Attendance) error {
	stored, ok := f.records[att.ID]
	if !ok || stored.ClockOutTime != nil || stored.Status != attendance.StatusBreakStart || stored.BreakEndTime != nil {
		return attendance.ErrNoActiveBreak
	}
	f.records[att.ID] = att
	return nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.HistoryFilter, companyID string) ([]attendance.Attendance, int64, error) {
	var matched []attendance.Attendance
	for _, rec := range f.records {
		if rec.CompanyID != companyID {
			continue
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && *filter.Status != "" && string(rec.Status) != *filter.Status {
			continue
		}
		matched = append(matched, rec)
	}
	sort.Slice(matched, func(i, j int) bool {
		if filter.SortOrder == "asc" {
			return matched[i].ClockInTime.Before(matched[j].ClockInTime)
		}
		return matched[i].ClockInTime.After(matched[j].ClockInTime)
	})
	return matched, int64(len(matched)), nil
}

func (f *fakeAttendanceRepo) ListByPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	var matched []attendance.Attendance
	for _, rec := range f.records {
		if rec.EmployeeID != employeeID {
			continue
		}
		if rec.ClockInTime.Before(from) || rec.ClockInTime.After(to) {
			continue
		}
		matched = append(matched, rec)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ClockInTime.After(matched[j].ClockInTime)
	})
	return matched, nil
}

func (f *fakeAttendanceRepo) FindStaleOpenRecords(ctx context.Context, olderThan time.Time) ([]attendance.Attendance, error) {
	var matched []attendance.Attendance
	for _, rec := range f.records {
		if rec.ClockOutTime == nil && rec.ClockInTime.Before(olderThan) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: map[string]employee.Employee{
		testEmployee: {ID: testEmployee, CompanyID: testCompanyID, FullName: "Ari Wijaya", Designation: "Backend Engineer"},
		testManager:  {ID: testManager, CompanyID: testCompanyID, FullName: "Dewi Lestari", Designation: "Engineering Manager"},
		testOther:    {ID: testOther, CompanyID: testCompanyID, FullName: "Budi Santoso", Designation: "Designer"},
	}}
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id, companyID string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok || emp.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

var testTokenAuth = jwtauth.New("HS256", []byte("test-secret-key-for-jwt"), nil)

func authContext(t *testing.T, employeeID string, role user.Role) context.Context {
	t.Helper()
	token, _, err := testTokenAuth.Encode(map[string]interface{}{
		"user_id":     uuid.NewString(),
		"employee_id": employeeID,
		"company_id":  testCompanyID,
		"role":        string(role),
		"type":        "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestService() (attendance.AttendanceService, *fakeAttendanceRepo) {
	repo := newFakeAttendanceRepo()
	return NewAttendanceService(repo, newFakeEmployeeRepo()), repo
}

func TestClockIn(t *testing.T) {
	svc, _ := newTestService()
	ctx := authContext(t, testEmployee, user.RoleEmployee)

	resp, err := svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, testEmployee, resp.EmployeeID)
	assert.Equal(t, string(attendance.StatusClockedIn), resp.Status)
	assert.Nil(t, resp.ClockOutTime)
}

func TestClockIn_AlreadyClockedIn(t *testing.T) {
	svc, repo := newTestService()
	ctx := authContext(t, testEmployee, user.RoleEmployee)

	first, err := svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	_, err = svc.ClockIn(ctx, attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	// The losing attempt must not touch the existing open record.
	open, err := repo.FindOpenRecord(ctx, testEmployee)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, first.ID, open.ID)
}

func TestClockIn_NotesTooLong(t *testing.T) {
	svc, _ := newTestService()
	ctx := authContext(t, testEmployee, user.RoleEmployee)

	notes := strings.Repeat("a", 1001)
	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{Notes: &notes})
	assert.Error(t, err)
}

func TestClockIn_UnknownEmployee(t *testing.T) {
	svc, _ := newTestService()
	ctx := authContext(t, uuid.NewString(), user.RoleEmployee)

	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestClockOut(t *testing.T) {
	svc, _ := newTestService()
	ctx := authContext(t, testEmployee, user.RoleEmployee)

	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	resp, err := svc.ClockOut(ctx, attendance.ClockOutRequest{})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusClockedOut), resp.Status)
	require.NotNil(t, resp.ClockOutTime)
	require.NotNil(t, resp.TotalWorkingMinutes)
	require.NotNil(t, resp.TotalBreakMinutes)
	assert.Equal(t, 0, *resp.TotalBreakMinutes)
}

func TestClockOut_WithoutClockIn(t *testing.T) {
	svc, _ := newTestService()
	ctx := authContext(t, testEmployee, user.RoleEmployee)

	_, err := svc.ClockOut(ctx, attendance.ClockOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
}

func TestBreakCycle(t *testing.T) {
	svc, _ := newTestService()
	ctx := authContext(t, testEmployee, user.RoleEmployee)

	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	started, err := svc.StartBreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusBreakStart), started.Status)
	assert.NotNil(t, started.BreakStartTime)

	ended, err := svc.EndBreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusClockedIn), ended.Status)
	assert.NotNil(t, ended.BreakEndTime)

	// Second break in the same session is refused.
	_, err = svc.StartBreak(ctx)
	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyTaken)
}

func TestStartBreak_WithoutClockIn(t *testing.T) {
	svc, _ := newTestService()
	ctx := authContext(t, testEmployee, user.RoleEmployee)

	_, err := svc.StartBreak(ctx)
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
}

func TestEndBreak_WithoutBreak(t *testing.T) {
	svc, _ := newTestService()
	ctx := authContext(t, testEmployee, user.RoleEmployee)

	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	_, err = svc.EndBreak(ctx)
	assert.ErrorIs(t, err, attendance.ErrNoActiveBreak)
}

func TestGetStatus_DefaultsClockedOut(t *testing.T) {
	svc, _ := newTestService()
	ctx := authContext(t, testEmployee, user.RoleEmployee)

	resp, err := svc.GetStatus(ctx)
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusClockedOut), resp.Status)
	assert.Nil(t, resp.ActiveRecord)
	assert.Equal(t, "Ari Wijaya", resp.Employee.FullName)
}

func TestGetStatus_ReflectsOpenSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := authContext(t, testEmployee, user.RoleEmployee)

	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	resp, err := svc.GetStatus(ctx)
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusClockedIn), resp.Status)
	require.NotNil(t, resp.ActiveRecord)
	assert.Equal(t, testEmployee, resp.ActiveRecord.EmployeeID)
}

func TestGetHistory_EmployeeScopedToSelf(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ClockIn(authContext(t, testEmployee, user.RoleEmployee), attendance.ClockInRequest{})
	require.NoError(t, err)
	_, err = svc.ClockIn(authContext(t, testOther, user.RoleEmployee), attendance.ClockInRequest{})
	require.NoError(t, err)

	// Asking for someone else's records is silently rescoped, not refused.
	other := testOther
	resp, err := svc.GetHistory(authContext(t, testEmployee, user.RoleEmployee), attendance.HistoryFilter{EmployeeID: &other})
	require.NoError(t, err)

	require.Len(t, resp.Attendances, 1)
	assert.Equal(t, testEmployee, resp.Attendances[0].EmployeeID)
	assert.Equal(t, int64(1), resp.TotalCount)
}

func TestGetHistory_ManagerSeesAll(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ClockIn(authContext(t, testEmployee, user.RoleEmployee), attendance.ClockInRequest{})
	require.NoError(t, err)
	_, err = svc.ClockIn(authContext(t, testOther, user.RoleEmployee), attendance.ClockInRequest{})
	require.NoError(t, err)

	resp, err := svc.GetHistory(authContext(t, testManager, user.RoleManager), attendance.HistoryFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Len(t, resp.Attendances, 2)
}

func TestGetHistory_InvalidFilter(t *testing.T) {
	svc, _ := newTestService()

	badStatus := "on_vacation"
	_, err := svc.GetHistory(authContext(t, testManager, user.RoleManager), attendance.HistoryFilter{Status: &badStatus})
	assert.Error(t, err)
}

func TestGetSummary_OwnRecords(t *testing.T) {
	svc, repo := newTestService()
	ctx := authContext(t, testEmployee, user.RoleEmployee)

	now := time.Now().UTC()
	workMinutes, breakMinutes := 485, 30
	// Mid-month so the record always lands in the current summary window.
	clockIn := time.Date(now.Year(), now.Month(), 15, 9, 0, 0, 0, time.UTC)
	clockOut := clockIn.Add(time.Duration(workMinutes+breakMinutes) * time.Minute)
	repo.records["closed-1"] = attendance.Attendance{
		ID:                  "closed-1",
		EmployeeID:          testEmployee,
		CompanyID:           testCompanyID,
		ClockInTime:         clockIn,
		ClockOutTime:        &clockOut,
		Status:              attendance.StatusClockedOut,
		TotalWorkingMinutes: &workMinutes,
		TotalBreakMinutes:   &breakMinutes,
	}

	resp, err := svc.GetSummary(ctx, attendance.SummaryRequest{})
	require.NoError(t, err)

	assert.Equal(t, testEmployee, resp.EmployeeID)
	assert.Equal(t, int(now.Month()), resp.Month)
	assert.Equal(t, now.Year(), resp.Year)
	assert.Equal(t, 1, resp.TotalDaysWorked)
	assert.Equal(t, 8, resp.TotalWorkingHours)
	assert.Equal(t, 5, resp.TotalWorkingMinutes)
	assert.Equal(t, 30, resp.TotalBreakMinutes)
	assert.Equal(t, 8.08, resp.AverageWorkingHours)
	assert.Len(t, resp.RecentRecords, 1)
}

func TestGetSummary_EmptyMonthIsAllZeros(t *testing.T) {
	svc, _ := newTestService()
	ctx := authContext(t, testEmployee, user.RoleEmployee)

	month, year := 1, 2020
	resp, err := svc.GetSummary(ctx, attendance.SummaryRequest{Month: &month, Year: &year})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.TotalDaysWorked)
	assert.Equal(t, 0, resp.TotalWorkingMinutes)
	assert.Equal(t, 0.0, resp.AverageWorkingHours)
	assert.Empty(t, resp.RecentRecords)
}

func TestGetSummary_CrossEmployeeForbidden(t *testing.T) {
	svc, _ := newTestService()

	other := testOther
	_, err := svc.GetSummary(authContext(t, testEmployee, user.RoleEmployee), attendance.SummaryRequest{EmployeeID: &other})
	assert.ErrorIs(t, err, attendance.ErrSummaryForbidden)
}

func TestGetSummary_ManagerCanViewOthers(t *testing.T) {
	svc, _ := newTestService()

	other := testOther
	resp, err := svc.GetSummary(authContext(t, testManager, user.RoleManager), attendance.SummaryRequest{EmployeeID: &other})
	require.NoError(t, err)

	assert.Equal(t, testOther, resp.EmployeeID)
	assert.Equal(t, "Budi Santoso", resp.EmployeeName)
}

func TestGetSummary_InvalidMonth(t *testing.T) {
	svc, _ := newTestService()

	month := 13
	_, err := svc.GetSummary(authContext(t, testEmployee, user.RoleEmployee), attendance.SummaryRequest{Month: &month})
	assert.Error(t, err)
}
