package clock

import (
	"time"
)

// Record status lifecycle: a record is created ACTIVE on clock-in and
// becomes COMPLETED exactly once, on clock-out.
const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
)

// ClockRecord is one employee's work day: clock-in/out bounds, at most
// one break interval, and the derived worked-hours figure.
type ClockRecord struct {
	ID         string
	EmployeeID string
	Date       time.Time // calendar day, midnight in the reporting timezone
	ClockIn    *time.Time
	ClockOut   *time.Time
	BreakStart *time.Time
	BreakEnd   *time.Time
	TotalHours *float64
	Status     string
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Read-side join fields
	EmployeeName  *string
	EmployeeEmail *string
}

// IsClockedIn reports whether the record represents an open work session.
func (r *ClockRecord) IsClockedIn() bool {
	return r.ClockIn != nil && r.ClockOut == nil
}

// IsOnBreak reports whether the record has an open break interval.
func (r *ClockRecord) IsOnBreak() bool {
	return r.BreakStart != nil && r.BreakEnd == nil
}
