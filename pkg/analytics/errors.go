package analytics

import "errors"

// Typed failures the HTTP layer maps to 4xx responses. Empty data sets
// and zero denominators are never errors: they produce zero-valued
// aggregates and null ratios respectively.
var (
	// ErrInvalidMonthLabel means a budget month string is neither a
	// canonical "YYYY-MM" key nor a recognizable month name.
	ErrInvalidMonthLabel = errors.New("invalid month label")

	// ErrInvalidDateRange means a start/end date failed to parse or
	// start is after end.
	ErrInvalidDateRange = errors.New("invalid date range")
)
