package analytics

import (
	"math"
	"testing"
	"time"
)

func mustDate(date string) time.Time {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return d
}

func tx(date string, typ TransactionType, amount int64) Transaction {
	return Transaction{Date: mustDate(date), Type: typ, Amount: dec(amount)}
}

func TestAggregateByPeriodMonthly(t *testing.T) {
	txs := []Transaction{
		tx("2025-06-01", Expense, 100),
		tx("2025-06-15", Expense, 50),
		tx("2025-07-01", Expense, 200),
	}
	stats := AggregateByPeriod(txs, Monthly)
	if len(stats) != 2 {
		t.Fatalf("expected 2 periods got %d", len(stats))
	}
	june := stats[0]
	if june.Period != "6-2025" || june.Total != 150 || june.Count != 2 || june.Average != 75 {
		t.Fatalf("unexpected June stats %+v", june)
	}
	if stats[1].Period != "7-2025" {
		t.Fatalf("expected 7-2025 got %s", stats[1].Period)
	}
}

func TestAggregateByPeriodYearBoundary(t *testing.T) {
	// ISO week 52 of 2024 must sort before week 2 of 2025 even though
	// 52 > 2 numerically.
	txs := []Transaction{
		tx("2025-01-06", Income, 10),
		tx("2024-12-23", Income, 20),
	}
	stats := AggregateByPeriod(txs, Weekly)
	if len(stats) != 2 {
		t.Fatalf("expected 2 periods got %d", len(stats))
	}
	if stats[0].Year != 2024 || stats[0].PeriodNum != 52 {
		t.Fatalf("expected week 52-2024 first, got %+v", stats[0])
	}
	if stats[1].Period != "Week 2-2025" {
		t.Fatalf("expected Week 2-2025 got %s", stats[1].Period)
	}
}

func TestAggregateByPeriodCompleteness(t *testing.T) {
	txs := []Transaction{
		tx("2025-01-10", Expense, 33),
		tx("2025-02-10", Expense, 67),
		tx("2025-02-20", Expense, 100),
		tx("2025-12-31", Expense, 1),
	}
	var periodSum, txSum float64
	for _, s := range AggregateByPeriod(txs, Monthly) {
		periodSum += s.Total
	}
	for _, tr := range txs {
		f, _ := tr.Amount.Float64()
		txSum += f
	}
	if math.Abs(periodSum-txSum) > 0.01*4 {
		t.Fatalf("period totals %v do not match transaction sum %v", periodSum, txSum)
	}
}

func TestAggregateByPeriodEmpty(t *testing.T) {
	stats := AggregateByPeriod(nil, Monthly)
	if len(stats) != 0 {
		t.Fatalf("expected empty stats got %d", len(stats))
	}
}

func TestFilterTransactions(t *testing.T) {
	a := tx("2025-06-01", Expense, 100)
	a.Category = "Food"
	a.Status = "Completed"
	a.PaymentMethod = "Cash"
	b := tx("2025-06-02", Income, 200)
	b.Category = "Salary"
	b.Status = "Pending"
	b.PaymentMethod = "Bank Transfer"

	got := FilterTransactions([]Transaction{a, b}, TxFilter{Type: Expense})
	if len(got) != 1 || got[0].Category != "Food" {
		t.Fatalf("type filter failed: %+v", got)
	}
	got = FilterTransactions([]Transaction{a, b}, TxFilter{Status: "Pending", PaymentMethod: "Bank Transfer"})
	if len(got) != 1 || got[0].Category != "Salary" {
		t.Fatalf("status+method filter failed: %+v", got)
	}
	r, _ := ParseDateRange("2025-06-02", "")
	got = FilterTransactions([]Transaction{a, b}, TxFilter{Range: r})
	if len(got) != 1 || got[0].Type != Income {
		t.Fatalf("range filter failed: %+v", got)
	}
}

func TestParseGroupBy(t *testing.T) {
	if ParseGroupBy("weekly") != Weekly {
		t.Fatalf("weekly not recognized")
	}
	if ParseGroupBy("") != Monthly || ParseGroupBy("daily") != Monthly {
		t.Fatalf("default must be monthly")
	}
}
