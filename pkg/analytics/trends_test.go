package analytics

import (
	"testing"
)

func TestMonthlyExpenseTrends(t *testing.T) {
	txs := []Transaction{
		tx("2025-06-01", Expense, 100),
		tx("2025-06-20", Expense, 200),
		tx("2025-07-01", Expense, 50),
		tx("2025-06-15", Income, 9999),
	}
	points := MonthlyExpenseTrends(txs)
	if len(points) != 2 {
		t.Fatalf("expected 2 months got %d", len(points))
	}
	if points[0].Month != "6-2025" || points[0].Total != 300 {
		t.Fatalf("unexpected June point %+v", points[0])
	}
	if points[1].Month != "7-2025" || points[1].Total != 50 {
		t.Fatalf("unexpected July point %+v", points[1])
	}
}

func TestCashFlowTrends(t *testing.T) {
	txs := []Transaction{
		tx("2025-06-01", Income, 5000),
		tx("2025-06-10", Expense, 3000),
		tx("2025-07-01", Expense, 200),
	}
	points := CashFlowTrends(txs, Monthly)
	if len(points) != 2 {
		t.Fatalf("expected 2 periods got %d", len(points))
	}
	june := points[0]
	if june.Income != 5000 || june.Expense != 3000 || june.NetCashFlow != 2000 {
		t.Fatalf("unexpected June flow %+v", june)
	}
	// July has no income side.
	july := points[1]
	if july.Income != 0 || july.NetCashFlow != -200 {
		t.Fatalf("unexpected July flow %+v", july)
	}
}

func TestComprehensiveTrends(t *testing.T) {
	txs := []Transaction{
		tx("2025-06-01", Income, 4000),
		tx("2025-06-05", Income, 1000),
		tx("2025-06-10", Expense, 2500),
	}
	result := ComprehensiveTrends(txs, Monthly, "All Time")
	if len(result.Trends) != 1 {
		t.Fatalf("expected 1 period got %d", len(result.Trends))
	}
	p := result.Trends[0]
	if p.Income.Total != 5000 || p.Income.Count != 2 || p.Income.Average != 2500 {
		t.Fatalf("unexpected income stats %+v", p.Income)
	}
	if p.NetAmount != 2500 || p.ProfitMargin != 50 {
		t.Fatalf("unexpected net/margin %+v", p)
	}
	s := result.Summary
	if s.TotalIncome != 5000 || s.TotalNet != 2500 || s.TotalPeriods != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.AverageIncome != 5000 || s.AverageExpense != 2500 {
		t.Fatalf("unexpected averages %+v", s)
	}
}

func TestComprehensiveTrendsNoIncome(t *testing.T) {
	result := ComprehensiveTrends([]Transaction{tx("2025-06-10", Expense, 100)}, Monthly, "All Time")
	if result.Trends[0].ProfitMargin != 0 {
		t.Fatalf("no income must yield 0 margin, got %v", result.Trends[0].ProfitMargin)
	}
}

func TestWeeklyTrends(t *testing.T) {
	txs := []Transaction{
		tx("2024-12-23", Income, 100),
		tx("2025-01-06", Income, 300),
		tx("2025-01-07", Income, 100),
		tx("2025-01-06", Expense, 9999),
	}
	points := WeeklyTrends(txs, Income)
	if len(points) != 2 {
		t.Fatalf("expected 2 weeks got %d", len(points))
	}
	if points[0].Week != "Week 52-2024" || points[0].Total != 100 {
		t.Fatalf("unexpected first week %+v", points[0])
	}
	second := points[1]
	if second.WeekNum != 2 || second.Year != 2025 || second.Total != 400 || second.Average != 200 {
		t.Fatalf("unexpected second week %+v", second)
	}
}
