package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/arthurobs542/clock-timer/internal/domain/clock"
	"github.com/arthurobs542/clock-timer/internal/pkg/database"
)

type clockRepository struct {
	db *database.DB
}

func NewClockRepository(db *database.DB) clock.ClockRepository {
	return &clockRepository{db: db}
}

const clockRecordColumns = `
	id, employee_id, date, clock_in, clock_out, break_start, break_end,
	total_hours, status, notes, created_at, updated_at
`

func scanClockRecord(row pgx.Row) (clock.ClockRecord, error) {
	var record clock.ClockRecord
	err := row.Scan(
		&record.ID, &record.EmployeeID, &record.Date,
		&record.ClockIn, &record.ClockOut, &record.BreakStart, &record.BreakEnd,
		&record.TotalHours, &record.Status, &record.Notes,
		&record.CreatedAt, &record.UpdatedAt,
	)
	return record, err
}

// Create implements clock.ClockRepository.
func (r *clockRepository) Create(ctx context.Context, record clock.ClockRecord) (clock.ClockRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO clock_records (
			employee_id, date, clock_in, status, notes
		) VALUES (
			$1, $2, $3, $4, $5
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.EmployeeID,
		record.Date,
		record.ClockIn,
		record.Status,
		record.Notes,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		// The partial unique index on active records turns a concurrent
		// duplicate clock-in into a unique violation.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return clock.ClockRecord{}, clock.ErrAlreadyClockedIn
		}
		return clock.ClockRecord{}, fmt.Errorf("failed to create clock record: %w", err)
	}

	return record, nil
}

// GetByID implements clock.ClockRepository. The owner's name and email
// are joined in for the admin detail view.
func (r *clockRepository) GetByID(ctx context.Context, id string) (clock.ClockRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			cr.id, cr.employee_id, cr.date, cr.clock_in, cr.clock_out,
			cr.break_start, cr.break_end, cr.total_hours, cr.status,
			cr.notes, cr.created_at, cr.updated_at,
			u.name, u.email
		FROM clock_records cr
		JOIN users u ON u.id = cr.employee_id
		WHERE cr.id = $1
	`

	var record clock.ClockRecord
	err := q.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.EmployeeID, &record.Date,
		&record.ClockIn, &record.ClockOut, &record.BreakStart, &record.BreakEnd,
		&record.TotalHours, &record.Status, &record.Notes,
		&record.CreatedAt, &record.UpdatedAt,
		&record.EmployeeName, &record.EmployeeEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return clock.ClockRecord{}, clock.ErrRecordNotFound
		}
		return clock.ClockRecord{}, fmt.Errorf("failed to get clock record: %w", err)
	}

	return record, nil
}

// GetActiveByDate implements clock.ClockRepository.
func (r *clockRepository) GetActiveByDate(ctx context.Context, employeeID string, date time.Time) (*clock.ClockRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + clockRecordColumns + `
		FROM clock_records
		WHERE employee_id = $1
		  AND date = $2
		  AND status = $3
		LIMIT 1
	`
	// Inside a transaction, lock the row so two transitions on the same
	// day serialize instead of both reading the stale state.
	if _, inTx := database.TxFromContext(ctx); inTx {
		query += ` FOR UPDATE`
	}

	record, err := scanClockRecord(q.QueryRow(ctx, query, employeeID, date, clock.StatusActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active clock record: %w", err)
	}

	return &record, nil
}

// Update implements clock.ClockRepository. All mutable columns are
// written so a transition can also clear a field, e.g. restarting a
// break clears break_end.
func (r *clockRepository) Update(ctx context.Context, record clock.ClockRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE clock_records
		SET clock_in = $2,
			clock_out = $3,
			break_start = $4,
			break_end = $5,
			total_hours = $6,
			status = $7,
			notes = $8,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		record.ID,
		record.ClockIn,
		record.ClockOut,
		record.BreakStart,
		record.BreakEnd,
		record.TotalHours,
		record.Status,
		record.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update clock record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clock.ErrRecordNotFound
	}

	return nil
}

// List implements clock.ClockRepository.
func (r *clockRepository) List(ctx context.Context, filter clock.RecordFilter) ([]clock.ClockRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("cr.employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("cr.status = $%d", argPos))
		args = append(args, strings.ToUpper(*filter.Status))
		argPos++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("cr.date >= $%d", argPos))
		args = append(args, *filter.StartDate)
		argPos++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("cr.date <= $%d", argPos))
		args = append(args, *filter.EndDate)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `SELECT COUNT(*) FROM clock_records cr WHERE ` + where

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count clock records: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT
			cr.id, cr.employee_id, cr.date, cr.clock_in, cr.clock_out,
			cr.break_start, cr.break_end, cr.total_hours, cr.status,
			cr.notes, cr.created_at, cr.updated_at,
			u.name, u.email
		FROM clock_records cr
		JOIN users u ON u.id = cr.employee_id
		WHERE %s
		ORDER BY cr.date DESC, cr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clock records: %w", err)
	}
	defer rows.Close()

	var records []clock.ClockRecord
	for rows.Next() {
		var record clock.ClockRecord
		err := rows.Scan(
			&record.ID, &record.EmployeeID, &record.Date,
			&record.ClockIn, &record.ClockOut, &record.BreakStart, &record.BreakEnd,
			&record.TotalHours, &record.Status, &record.Notes,
			&record.CreatedAt, &record.UpdatedAt,
			&record.EmployeeName, &record.EmployeeEmail,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan clock record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate clock records: %w", err)
	}

	return records, total, nil
}

// ListCompleted implements clock.ClockRepository.
func (r *clockRepository) ListCompleted(ctx context.Context, employeeID string, from, to *time.Time) ([]clock.ClockRecord, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"employee_id = $1", "status = $2"}
	args := []interface{}{employeeID, clock.StatusCompleted}
	argPos := 3

	if from != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argPos))
		args = append(args, *from)
		argPos++
	}
	if to != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argPos))
		args = append(args, *to)
		argPos++
	}

	query := `
		SELECT ` + clockRecordColumns + `
		FROM clock_records
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed clock records: %w", err)
	}
	defer rows.Close()

	var records []clock.ClockRecord
	for rows.Next() {
		record, err := scanClockRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clock record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clock records: %w", err)
	}

	return records, nil
}
