package clock

import "errors"

// Clock domain errors
var (
	// Clock-in / clock-out errors
	ErrAlreadyClockedIn = errors.New("you have already clocked in today")
	ErrNoActiveSession  = errors.New("no active work session found for today")

	// Break errors
	ErrBreakAlreadyActive = errors.New("a break is already in progress")
	ErrNoActiveBreak      = errors.New("no active break found")

	// General errors
	ErrRecordNotFound = errors.New("clock record not found")
)
