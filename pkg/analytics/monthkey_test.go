package analytics

import (
	"errors"
	"testing"
)

func TestCanonicalMonthNames(t *testing.T) {
	for _, label := range []string{"June", "june", "JUN", "jun"} {
		got, err := CanonicalMonth(label, 2025)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", label, err)
		}
		if got != "2025-06" {
			t.Fatalf("%q: expected 2025-06 got %s", label, got)
		}
	}
}

func TestCanonicalMonthIdempotent(t *testing.T) {
	once, err := CanonicalMonth("2025-06", 2030)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	twice, err := CanonicalMonth(once, 2030)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if twice != "2025-06" {
		t.Fatalf("expected 2025-06 got %s", twice)
	}
}

func TestCanonicalMonthEmpty(t *testing.T) {
	got, err := CanonicalMonth("  ", 2025)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got != UnknownMonthKey {
		t.Fatalf("expected %s got %s", UnknownMonthKey, got)
	}
}

func TestCanonicalMonthInvalid(t *testing.T) {
	_, err := CanonicalMonth("Juneteenth", 2025)
	if !errors.Is(err, ErrInvalidMonthLabel) {
		t.Fatalf("expected ErrInvalidMonthLabel got %v", err)
	}
}

func TestMonthKeyDate(t *testing.T) {
	at, ok, err := MonthKeyDate("March", 2024)
	if err != nil || !ok {
		t.Fatalf("expected placeable month, ok=%v err=%v", ok, err)
	}
	if at.Year() != 2024 || at.Month() != 3 || at.Day() != 1 {
		t.Fatalf("expected 2024-03-01 got %v", at)
	}
	_, ok, err = MonthKeyDate("", 2024)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if ok {
		t.Fatalf("unknown month must not be placeable")
	}
}

func TestMonthRange(t *testing.T) {
	r, err := MonthRange("2025-06", 2030)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if r.Start == nil || r.End == nil {
		t.Fatalf("expected both bounds set, got %+v", r)
	}
	if r.Start.Year() != 2025 || r.Start.Month() != 6 || r.Start.Day() != 1 {
		t.Fatalf("expected start 2025-06-01 got %v", r.Start)
	}
	if r.End.Month() != 7 || r.End.Day() != 1 {
		t.Fatalf("end must be the first day of the next month, got %v", r.End)
	}
	if !r.Contains(mustDate("2025-06-30")) || r.Contains(mustDate("2025-07-01")) {
		t.Fatalf("window must cover the whole month and nothing more")
	}

	named, err := MonthRange("January", 2026)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if named.Start.Year() != 2026 || named.Start.Month() != 1 {
		t.Fatalf("month name must resolve against the reference year, got %v", named.Start)
	}

	if _, err := MonthRange("", 2025); !errors.Is(err, ErrInvalidMonthLabel) {
		t.Fatalf("empty label must be ErrInvalidMonthLabel, got %v", err)
	}
	if _, err := MonthRange("Juneteenth", 2025); !errors.Is(err, ErrInvalidMonthLabel) {
		t.Fatalf("expected ErrInvalidMonthLabel got %v", err)
	}
}
