package analytics

import (
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	food := catTx(Expense, "Food", 700)
	rent := catTx(Expense, "Rent", 1200)
	salary := catTx(Income, "Salary", 5000)

	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	s := Summarize([]Transaction{food, rent, salary}, DateRange{}, now)
	if s.TotalIncome != 5000 || s.TotalExpense != 1900 || s.NetProfit != 3100 {
		t.Fatalf("unexpected totals %+v", s)
	}
	if s.TopCategory == nil || *s.TopCategory != "Rent" {
		t.Fatalf("expected Rent got %v", s.TopCategory)
	}
}

func TestSummarizeUpcomingIgnoresRange(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	due := mustDate("2025-09-01")
	pending := tx("2025-08-20", Expense, 100)
	pending.Status = "Pending"
	pending.DueDate = &due

	past := mustDate("2025-05-01")
	overdue := tx("2025-04-20", Expense, 100)
	overdue.Status = "Pending"
	overdue.DueDate = &past

	inRange := tx("2025-06-10", Income, 1000)

	// The range only covers June, but the pending payment due in
	// September still counts.
	r, _ := ParseDateRange("2025-06-01", "2025-06-30")
	s := Summarize([]Transaction{pending, overdue, inRange}, r, now)
	if s.UpcomingPayments != 1 {
		t.Fatalf("expected 1 upcoming payment got %d", s.UpcomingPayments)
	}
	if s.TotalIncome != 1000 || s.TotalExpense != 0 {
		t.Fatalf("range filter not applied to totals: %+v", s)
	}
	if s.TopCategory != nil {
		t.Fatalf("no expenses in range, topCategory must be nil")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, DateRange{}, time.Now())
	if s.TotalIncome != 0 || s.TotalExpense != 0 || s.NetProfit != 0 || s.UpcomingPayments != 0 {
		t.Fatalf("empty input must yield zeros: %+v", s)
	}
	if s.TopCategory != nil {
		t.Fatalf("topCategory must be nil for empty input")
	}
}
