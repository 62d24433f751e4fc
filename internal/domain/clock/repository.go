package clock

import (
	"context"
	"time"
)

// ClockRepository defines data access methods for clock records.
type ClockRepository interface {
	// Create inserts a new clock record. A concurrent duplicate for the
	// same (employee, day) must surface as ErrAlreadyClockedIn; the
	// backing store enforces this with a unique constraint on active
	// records.
	Create(ctx context.Context, record ClockRecord) (ClockRecord, error)

	// GetByID retrieves a record by ID
	GetByID(ctx context.Context, id string) (ClockRecord, error)

	// GetActiveByDate retrieves the ACTIVE record for an employee on a
	// given calendar day, or nil when none exists. When called inside a
	// transaction the row is locked for the duration of the transaction.
	GetActiveByDate(ctx context.Context, employeeID string, date time.Time) (*ClockRecord, error)

	// Update persists mutated fields of an existing record
	Update(ctx context.Context, record ClockRecord) error

	// List retrieves records matching the filter, newest day first,
	// along with the unpaginated total
	List(ctx context.Context, filter RecordFilter) ([]ClockRecord, int64, error)

	// ListCompleted retrieves all COMPLETED records for an employee
	// within the optional [from, to] day range
	ListCompleted(ctx context.Context, employeeID string, from, to *time.Time) ([]ClockRecord, error)
}

// Notifier receives fire-and-forget side effects from the engine.
// Implementations must never block the caller on delivery; failures are
// logged, not returned.
type Notifier interface {
	ClockInRecorded(ctx context.Context, employeeID string, at time.Time)
	ClockOutRecorded(ctx context.Context, employeeID string, at time.Time, totalHours float64)
}
