package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aiaugments-collab/Augment-HR-sub002/internal/domain/attendance"
	"github.com/aiaugments-collab/Augment-HR-sub002/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// openRecordIndex is the partial unique index enforcing at most one row
// with a NULL clock_out_time per employee:
//
//	CREATE UNIQUE INDEX attendance_records_one_open_per_employee
//	ON attendance_records (employee_id) WHERE clock_out_time IS NULL;
const openRecordIndex = "attendance_records_one_open_per_employee"

const attendanceColumns = `
	id, employee_id, company_id,
	clock_in_time, clock_out_time, break_start_time, break_end_time,
	status, total_working_minutes, total_break_minutes, notes,
	created_at, updated_at
`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.CompanyID,
		&att.ClockInTime, &att.ClockOutTime, &att.BreakStartTime, &att.BreakEndTime,
		&att.Status, &att.TotalWorkingMinutes, &att.TotalBreakMinutes, &att.Notes,
		&att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

// Create implements attendance.AttendanceRepository. The open-record check
// and the insert run inside one transaction with the existing open row
// locked, so two concurrent clock-ins cannot both succeed; the partial
// unique index backs the same invariant at the schema level.
func (a *attendanceRepository) Create(ctx context.Context, newRecord attendance.Attendance) (attendance.Attendance, error) {
	if newRecord.ID == "" {
		newRecord.ID = uuid.NewString()
	}

	err := WithRetryingTransaction(ctx, a.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		q := GetQuerier(txCtx, a.db)

		var openID string
		err := q.QueryRow(txCtx, `
			SELECT id FROM attendance_records
			WHERE employee_id = $1
			  AND clock_out_time IS NULL
			FOR UPDATE
		`, newRecord.EmployeeID).Scan(&openID)
		if err == nil {
			return attendance.ErrAlreadyClockedIn
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to check for open record: %w", err)
		}

		insert := `
			INSERT INTO attendance_records (
				id, employee_id, company_id, clock_in_time, status, notes
			) VALUES (
				$1, $2, $3, $4, $5, $6
			) RETURNING created_at, updated_at
		`
		return q.QueryRow(txCtx, insert,
			newRecord.ID,
			newRecord.EmployeeID,
			newRecord.CompanyID,
			newRecord.ClockInTime,
			newRecord.Status,
			newRecord.Notes,
		).Scan(&newRecord.CreatedAt, &newRecord.UpdatedAt)
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == openRecordIndex {
			return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
		}
		if errors.Is(err, attendance.ErrAlreadyClockedIn) {
			return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return newRecord, nil
}

// FindOpenRecord implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindOpenRecord(ctx context.Context, employeeID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1
		  AND clock_out_time IS NULL
		ORDER BY clock_in_time DESC
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // employee is clocked out
		}
		return nil, fmt.Errorf("failed to find open record: %w", err)
	}

	return &att, nil
}

// Close implements attendance.AttendanceRepository. The WHERE clause
// re-verifies that the record is still open, so concurrent clock-outs on
// the same record resolve to exactly one success.
func (a *attendanceRepository) Close(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET clock_out_time = $1,
		    break_start_time = $2,
		    break_end_time = $3,
		    status = $4,
		    total_working_minutes = $5,
		    total_break_minutes = $6,
		    notes = $7,
		    updated_at = $8
		WHERE id = $9
		  AND clock_out_time IS NULL
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		att.ClockOutTime,
		att.BreakStartTime,
		att.BreakEndTime,
		att.Status,
		att.TotalWorkingMinutes,
		att.TotalBreakMinutes,
		att.Notes,
		att.UpdatedAt,
		att.ID,
	).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrNotClockedIn
		}
		return fmt.Errorf("failed to close attendance record: %w", err)
	}

	return nil
}

// SetBreakStart implements attendance.AttendanceRepository.
func (a *attendanceRepository) SetBreakStart(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET break_start_time = $1,
		    status = $2,
		    updated_at = $3
		WHERE id = $4
		  AND clock_out_time IS NULL
		  AND status = $5
		  AND break_start_time IS NULL
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		att.BreakStartTime,
		attendance.StatusBreakStart,
		att.UpdatedAt,
		att.ID,
		attendance.StatusClockedIn,
	).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrBreakAlreadyStarted
		}
		return fmt.Errorf("failed to start break: %w", err)
	}

	return nil
}

// SetBreakEnd implements attendance.AttendanceRepository.
func (a *attendanceRepository) SetBreakEnd(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET break_end_time = $1,
		    status = $2,
		    updated_at = $3
		WHERE id = $4
		  AND clock_out_time IS NULL
		  AND status = $5
		  AND break_end_time IS NULL
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		att.BreakEndTime,
		attendance.StatusClockedIn,
		att.UpdatedAt,
		att.ID,
		attendance.StatusBreakStart,
	).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrNoActiveBreak
		}
		return fmt.Errorf("failed to end break: %w", err)
	}

	return nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.HistoryFilter, companyID string) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "a.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.clock_in_time >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.clock_in_time < $%d::date + interval '1 day'", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendance_records a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT
			a.id, a.employee_id, a.company_id,
			a.clock_in_time, a.clock_out_time, a.break_start_time, a.break_end_time,
			a.status, a.total_working_minutes, a.total_break_minutes, a.notes,
			a.created_at, a.updated_at,
			e.full_name AS employee_name
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.clock_in_time %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.CompanyID,
			&att.ClockInTime, &att.ClockOutTime, &att.BreakStartTime, &att.BreakEndTime,
			&att.Status, &att.TotalWorkingMinutes, &att.TotalBreakMinutes, &att.Notes,
			&att.CreatedAt, &att.UpdatedAt,
			&att.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, att)
	}

	return records, total, nil
}

// ListByPeriod implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1
		  AND clock_in_time >= $2
		  AND clock_in_time <= $3
		ORDER BY clock_in_time DESC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance period: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, att)
	}

	return records, nil
}

// FindStaleOpenRecords implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindStaleOpenRecords(ctx context.Context, olderThan time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE clock_out_time IS NULL
		  AND clock_in_time < $1
		ORDER BY clock_in_time ASC
	`

	rows, err := q.Query(ctx, query, olderThan)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale open records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, att)
	}

	return records, nil
}
