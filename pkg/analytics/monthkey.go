package analytics

import (
	"fmt"
	"strings"
	"time"
)

// UnknownMonthKey is the canonical key for budgets without a month label.
const UnknownMonthKey = "unknown"

var monthIndex = buildMonthIndex()

func buildMonthIndex() map[string]time.Month {
	idx := make(map[string]time.Month, 24)
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		idx[name] = m
		idx[name[:3]] = m
	}
	return idx
}

// CanonicalMonth converts a budget's month label into a canonical
// "YYYY-MM" key. Labels that already contain a hyphen are assumed
// canonical and returned unchanged; month names (full or three-letter,
// any case) are resolved against referenceYear. An empty label maps to
// UnknownMonthKey. Anything else is ErrInvalidMonthLabel.
func CanonicalMonth(label string, referenceYear int) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return UnknownMonthKey, nil
	}
	if strings.Contains(label, "-") {
		return label, nil
	}
	m, ok := monthIndex[strings.ToLower(label)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthLabel, label)
	}
	return fmt.Sprintf("%d-%02d", referenceYear, int(m)), nil
}

// MonthKeyDate resolves a month label to the first day of that month,
// for placing budgets on the timeline. The second return is false for
// the unknown key, which has no position in time.
func MonthKeyDate(label string, referenceYear int) (time.Time, bool, error) {
	key, err := CanonicalMonth(label, referenceYear)
	if err != nil {
		return time.Time{}, false, err
	}
	if key == UnknownMonthKey {
		return time.Time{}, false, nil
	}
	var year, month int
	if _, err := fmt.Sscanf(key, "%d-%d", &year, &month); err != nil || month < 1 || month > 12 {
		return time.Time{}, false, fmt.Errorf("%w: %q", ErrInvalidMonthLabel, label)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true, nil
}

// MonthRange is the calendar window a single month label spans: the
// first day inclusive up to the first day of the next month exclusive.
// Labels that cannot be placed on the timeline are ErrInvalidMonthLabel.
func MonthRange(label string, referenceYear int) (DateRange, error) {
	at, ok, err := MonthKeyDate(label, referenceYear)
	if err != nil {
		return DateRange{}, err
	}
	if !ok {
		return DateRange{}, fmt.Errorf("%w: %q has no position in time", ErrInvalidMonthLabel, label)
	}
	end := at.AddDate(0, 1, 0)
	return DateRange{Start: &at, End: &end}, nil
}
