package clock

import (
	"context"
)

// ClockService defines the work-session engine: state transitions for a
// single employee's work day plus the read-side aggregations.
type ClockService interface {
	// ClockIn opens a new work session for today
	ClockIn(ctx context.Context, employeeID string, req ClockEventRequest) (ClockRecordResponse, error)

	// ClockOut closes today's open session and computes total hours
	ClockOut(ctx context.Context, employeeID string, req ClockEventRequest) (ClockRecordResponse, error)

	// StartBreak opens the break interval on today's session
	StartBreak(ctx context.Context, employeeID string, req ClockEventRequest) (ClockRecordResponse, error)

	// EndBreak closes the open break interval
	EndBreak(ctx context.Context, employeeID string, req ClockEventRequest) (ClockRecordResponse, error)

	// GetCurrentStatus reports whether the employee is clocked in or on
	// break right now
	GetCurrentStatus(ctx context.Context, employeeID string) (CurrentStatusResponse, error)

	// GetStats aggregates completed records into worked-hours statistics
	GetStats(ctx context.Context, employeeID string, filter StatsFilter) (ClockStatsResponse, error)

	// ListRecords retrieves a page of records. An empty
	// filter.EmployeeID spans all employees; authorization for that is
	// the caller's concern.
	ListRecords(ctx context.Context, filter RecordFilter) (ListRecordsResponse, error)

	// GetRecord retrieves a single record by ID, regardless of owner;
	// authorization is the caller's concern.
	GetRecord(ctx context.Context, id string) (ClockRecordResponse, error)
}
