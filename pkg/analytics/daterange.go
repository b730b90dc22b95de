package analytics

import (
	"fmt"
	"time"
)

// DateRange is the single date-filter value object shared by every
// aggregation call: Start is an inclusive lower bound, End an exclusive
// upper bound already advanced past the requested end date, so the
// whole final day is included.
type DateRange struct {
	Start *time.Time
	End   *time.Time

	rawStart string
	rawEnd   string
}

var rangeLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
}

func parseRangeDate(s string) (time.Time, error) {
	for _, layout := range rangeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidDateRange, s)
}

// ParseDateRange builds a DateRange from optional query strings. Either
// side may be empty. A start after the end is ErrInvalidDateRange.
func ParseDateRange(startStr, endStr string) (DateRange, error) {
	r := DateRange{rawStart: startStr, rawEnd: endStr}
	if startStr != "" {
		t, err := parseRangeDate(startStr)
		if err != nil {
			return DateRange{}, err
		}
		r.Start = &t
	}
	if endStr != "" {
		t, err := parseRangeDate(endStr)
		if err != nil {
			return DateRange{}, err
		}
		if r.Start != nil && r.Start.After(t) {
			return DateRange{}, fmt.Errorf("%w: start %q after end %q", ErrInvalidDateRange, startStr, endStr)
		}
		end := t.AddDate(0, 0, 1)
		r.End = &end
	}
	return r, nil
}

// IsZero reports whether no bound is set.
func (r DateRange) IsZero() bool { return r.Start == nil && r.End == nil }

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && !t.Before(*r.End) {
		return false
	}
	return true
}

// ReferenceYear resolves the year used to canonicalize month names:
// the start date's year, else the end date's year, else the current year.
func (r DateRange) ReferenceYear(now time.Time) int {
	if r.Start != nil {
		return r.Start.Year()
	}
	if r.End != nil {
		return r.End.Year()
	}
	return now.Year()
}

// Label is the human period string the frontend displays.
func (r DateRange) Label() string {
	if r.rawStart != "" && r.rawEnd != "" {
		return r.rawStart + " to " + r.rawEnd
	}
	return "All Time"
}
