package clock

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/arthurobs542/clock-timer/internal/domain/clock"
	"github.com/arthurobs542/clock-timer/internal/pkg/database"
)

type ClockServiceImpl struct {
	tx       database.Transactor
	repo     clock.ClockRepository
	notifier clock.Notifier
	loc      *time.Location
	now      func() time.Time
}

func NewClockService(
	tx database.Transactor,
	clockRepo clock.ClockRepository,
	notifier clock.Notifier,
	loc *time.Location,
) clock.ClockService {
	return &ClockServiceImpl{
		tx:       tx,
		repo:     clockRepo,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
	}
}

// today returns midnight of the current day in the reporting timezone.
func (s *ClockServiceImpl) today(now time.Time) time.Time {
	local := now.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
}

// dayOf maps a stored calendar day back into the reporting timezone so
// range comparisons are not skewed by the scan location.
func (s *ClockServiceImpl) dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// computeTotalHours derives the worked-hours figure: elapsed clock-in to
// clock-out minus the break interval when both bounds are known. Clamped
// at zero so a break that exceeds the work interval can never produce a
// negative total.
func computeTotalHours(clockIn, clockOut time.Time, breakStart, breakEnd *time.Time) float64 {
	workedMinutes := clockOut.Sub(clockIn).Minutes()

	var breakMinutes float64
	if breakStart != nil && breakEnd != nil {
		breakMinutes = breakEnd.Sub(*breakStart).Minutes()
	}

	hours := (workedMinutes - breakMinutes) / 60
	if hours < 0 {
		return 0
	}
	return hours
}

// ClockIn implements clock.ClockService.
func (s *ClockServiceImpl) ClockIn(ctx context.Context, employeeID string, req clock.ClockEventRequest) (clock.ClockRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return clock.ClockRecordResponse{}, err
	}

	now := s.now()
	nowUTC := now.UTC()

	var created clock.ClockRecord
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetActiveByDate(ctx, employeeID, s.today(now))
		if err != nil {
			return fmt.Errorf("failed to look up active session: %w", err)
		}
		if existing != nil {
			return clock.ErrAlreadyClockedIn
		}

		record := clock.ClockRecord{
			EmployeeID: employeeID,
			Date:       s.today(now),
			ClockIn:    &nowUTC,
			Status:     clock.StatusActive,
		}
		if req.HasNotes() {
			record.Notes = req.Notes
		}

		// The unique active-record constraint backs this up: a
		// concurrent duplicate surfaces here as ErrAlreadyClockedIn.
		created, err = s.repo.Create(ctx, record)
		return err
	})
	if err != nil {
		return clock.ClockRecordResponse{}, err
	}

	s.notifier.ClockInRecorded(ctx, employeeID, now)

	return s.mapRecordToResponse(created), nil
}

// ClockOut implements clock.ClockService.
func (s *ClockServiceImpl) ClockOut(ctx context.Context, employeeID string, req clock.ClockEventRequest) (clock.ClockRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return clock.ClockRecordResponse{}, err
	}

	now := s.now()
	nowUTC := now.UTC()

	var updated clock.ClockRecord
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.repo.GetActiveByDate(ctx, employeeID, s.today(now))
		if err != nil {
			return fmt.Errorf("failed to look up active session: %w", err)
		}
		if record == nil || record.ClockIn == nil || record.ClockOut != nil {
			return clock.ErrNoActiveSession
		}

		totalHours := computeTotalHours(*record.ClockIn, nowUTC, record.BreakStart, record.BreakEnd)

		record.ClockOut = &nowUTC
		record.TotalHours = &totalHours
		record.Status = clock.StatusCompleted
		if req.HasNotes() {
			record.Notes = req.Notes
		}

		if err := s.repo.Update(ctx, *record); err != nil {
			return fmt.Errorf("failed to update clock record: %w", err)
		}

		updated = *record
		return nil
	})
	if err != nil {
		return clock.ClockRecordResponse{}, err
	}

	s.notifier.ClockOutRecorded(ctx, employeeID, now, *updated.TotalHours)

	return s.mapRecordToResponse(updated), nil
}

// StartBreak implements clock.ClockService.
func (s *ClockServiceImpl) StartBreak(ctx context.Context, employeeID string, req clock.ClockEventRequest) (clock.ClockRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return clock.ClockRecordResponse{}, err
	}

	now := s.now()
	nowUTC := now.UTC()

	var updated clock.ClockRecord
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.repo.GetActiveByDate(ctx, employeeID, s.today(now))
		if err != nil {
			return fmt.Errorf("failed to look up active session: %w", err)
		}
		if record == nil || record.ClockIn == nil || record.ClockOut != nil {
			return clock.ErrNoActiveSession
		}
		if record.IsOnBreak() {
			return clock.ErrBreakAlreadyActive
		}

		// Single break interval per day: starting again after a
		// completed break replaces the interval.
		record.BreakStart = &nowUTC
		record.BreakEnd = nil
		if req.HasNotes() {
			record.Notes = req.Notes
		}

		if err := s.repo.Update(ctx, *record); err != nil {
			return fmt.Errorf("failed to update clock record: %w", err)
		}

		updated = *record
		return nil
	})
	if err != nil {
		return clock.ClockRecordResponse{}, err
	}

	return s.mapRecordToResponse(updated), nil
}

// EndBreak implements clock.ClockService.
func (s *ClockServiceImpl) EndBreak(ctx context.Context, employeeID string, req clock.ClockEventRequest) (clock.ClockRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return clock.ClockRecordResponse{}, err
	}

	now := s.now()
	nowUTC := now.UTC()

	var updated clock.ClockRecord
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.repo.GetActiveByDate(ctx, employeeID, s.today(now))
		if err != nil {
			return fmt.Errorf("failed to look up active session: %w", err)
		}
		if record == nil || !record.IsOnBreak() {
			return clock.ErrNoActiveBreak
		}

		record.BreakEnd = &nowUTC
		// Under normal flow clock-out has not happened yet; recompute
		// anyway so a completed record stays consistent.
		if record.ClockIn != nil && record.ClockOut != nil {
			totalHours := computeTotalHours(*record.ClockIn, *record.ClockOut, record.BreakStart, record.BreakEnd)
			record.TotalHours = &totalHours
		}
		if req.HasNotes() {
			record.Notes = req.Notes
		}

		if err := s.repo.Update(ctx, *record); err != nil {
			return fmt.Errorf("failed to update clock record: %w", err)
		}

		updated = *record
		return nil
	})
	if err != nil {
		return clock.ClockRecordResponse{}, err
	}

	return s.mapRecordToResponse(updated), nil
}

// GetCurrentStatus implements clock.ClockService.
func (s *ClockServiceImpl) GetCurrentStatus(ctx context.Context, employeeID string) (clock.CurrentStatusResponse, error) {
	record, err := s.repo.GetActiveByDate(ctx, employeeID, s.today(s.now()))
	if err != nil {
		return clock.CurrentStatusResponse{}, fmt.Errorf("failed to look up active session: %w", err)
	}

	if record == nil {
		return clock.CurrentStatusResponse{
			IsClockedIn: false,
			IsOnBreak:   false,
		}, nil
	}

	resp := s.mapRecordToResponse(*record)
	return clock.CurrentStatusResponse{
		IsClockedIn:   record.IsClockedIn(),
		IsOnBreak:     record.IsOnBreak(),
		CurrentRecord: &resp,
	}, nil
}

// GetStats implements clock.ClockService.
func (s *ClockServiceImpl) GetStats(ctx context.Context, employeeID string, filter clock.StatsFilter) (clock.ClockStatsResponse, error) {
	if err := filter.Validate(); err != nil {
		return clock.ClockStatsResponse{}, err
	}

	from := s.parseDay(filter.StartDate)
	to := s.parseDay(filter.EndDate)

	records, err := s.repo.ListCompleted(ctx, employeeID, from, to)
	if err != nil {
		return clock.ClockStatsResponse{}, fmt.Errorf("failed to list completed records: %w", err)
	}

	now := s.now().In(s.loc)
	// Calendar week starts on Sunday.
	weekStart := s.today(now).AddDate(0, 0, -int(now.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)

	stats := clock.ClockStatsResponse{TotalDays: len(records)}
	for _, record := range records {
		var hours float64
		if record.TotalHours != nil {
			hours = *record.TotalHours
		}

		stats.TotalHours += hours

		day := s.dayOf(record.Date)
		if !day.Before(weekStart) {
			stats.CurrentWeekHours += hours
		}
		if !day.Before(monthStart) {
			stats.CurrentMonthHours += hours
		}
	}

	if stats.TotalDays > 0 {
		stats.AverageHoursPerDay = stats.TotalHours / float64(stats.TotalDays)
	}

	return stats, nil
}

// ListRecords implements clock.ClockService.
func (s *ClockServiceImpl) ListRecords(ctx context.Context, filter clock.RecordFilter) (clock.ListRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return clock.ListRecordsResponse{}, err
	}

	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return clock.ListRecordsResponse{}, fmt.Errorf("failed to list clock records: %w", err)
	}

	responses := make([]clock.ClockRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, s.mapRecordToResponse(record))
	}

	return clock.ListRecordsResponse{
		Records: responses,
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
		Pages:   int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// GetRecord implements clock.ClockService.
func (s *ClockServiceImpl) GetRecord(ctx context.Context, id string) (clock.ClockRecordResponse, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return clock.ClockRecordResponse{}, err
	}
	return s.mapRecordToResponse(record), nil
}

// parseDay converts an optional YYYY-MM-DD filter value to midnight in
// the reporting timezone. Validation has already run, a malformed value
// is treated as absent.
func (s *ClockServiceImpl) parseDay(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", *value, s.loc)
	if err != nil {
		return nil
	}
	return &t
}

// timePtrToString safely converts a *time.Time to an RFC3339 string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}

func (s *ClockServiceImpl) mapRecordToResponse(record clock.ClockRecord) clock.ClockRecordResponse {
	return clock.ClockRecordResponse{
		ID:            record.ID,
		EmployeeID:    record.EmployeeID,
		EmployeeName:  record.EmployeeName,
		EmployeeEmail: record.EmployeeEmail,
		Date:          record.Date.Format("2006-01-02"),
		ClockIn:       timePtrToString(record.ClockIn),
		ClockOut:      timePtrToString(record.ClockOut),
		BreakStart:    timePtrToString(record.BreakStart),
		BreakEnd:      timePtrToString(record.BreakEnd),
		TotalHours:    record.TotalHours,
		Status:        record.Status,
		Notes:         record.Notes,
		CreatedAt:     record.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     record.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
