package analytics

import (
	"testing"
	"time"
)

func TestPerformanceBoundaries(t *testing.T) {
	cases := []struct {
		utilization float64
		want        string
	}{
		{0, "Excellent"},
		{80, "Excellent"},
		{80.01, "On Track"},
		{100, "On Track"},
		{100.5, "Warning"},
		{120, "Warning"},
		{121, "Critical"},
	}
	for _, c := range cases {
		if got := PerformanceFor(c.utilization); got != c.want {
			t.Fatalf("utilization %v: expected %s got %s", c.utilization, c.want, got)
		}
	}
}

func TestVarianceAnalysis(t *testing.T) {
	lines := []BudgetLine{
		{Month: "2025-06", Category: "Food", Amount: dec(500)},
		{Month: "2025-06", Category: "Rent", Amount: dec(1200)},
	}
	food := tx("2025-06-10", Expense, 450)
	food.Category = "Food"
	unbudgeted := tx("2025-06-11", Expense, 99)
	unbudgeted.Category = "Travel"

	rows := VarianceAnalysis(lines, []Transaction{food, unbudgeted})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows got %d", len(rows))
	}
	if rows[0].Category != "Food" || rows[0].Variance != 50 {
		t.Fatalf("unexpected food row %+v", rows[0])
	}
	// Rent has no spend at all.
	if rows[1].Actual != 0 || rows[1].Variance != 1200 {
		t.Fatalf("unexpected rent row %+v", rows[1])
	}
}

func TestUtilizationOverallIncludesUnbudgetedSpend(t *testing.T) {
	lines := []BudgetLine{{Month: "2025-06", Category: "Food", Amount: dec(1000)}}
	food := tx("2025-06-10", Expense, 400)
	food.Category = "Food"
	travel := tx("2025-06-11", Expense, 300)
	travel.Category = "Travel"

	result := Utilization(lines, []Transaction{food, travel})
	if result.Overall.TotalActual != 700 {
		t.Fatalf("overall actual must include unbudgeted spend, got %v", result.Overall.TotalActual)
	}
	if result.Overall.UtilizationPercentage != 70 {
		t.Fatalf("expected 70%% got %v", result.Overall.UtilizationPercentage)
	}
	if len(result.ByCategory) != 1 || result.ByCategory[0].Actual != 400 {
		t.Fatalf("category split must only cover budgeted categories: %+v", result.ByCategory)
	}
}

func TestEnhancedAnalysis(t *testing.T) {
	lines := []BudgetLine{
		{Month: "2025-06", Category: "Food", Amount: dec(1000)},
		{Month: "2025-06", Category: "Rent", Amount: dec(1000)},
		{Month: "2025-06", Category: "Fun", Amount: dec(100)},
	}
	mk := func(cat string, amount int64) Transaction {
		e := tx("2025-06-10", Expense, amount)
		e.Category = cat
		return e
	}
	expenses := []Transaction{mk("Food", 500), mk("Rent", 1100), mk("Fun", 100)}

	result := EnhancedAnalysis(lines, expenses)
	// budgeted 2100, actual 1700, variance 400 → 19.05% variance.
	if result.Overall.TotalBudgeted != 2100 || result.Overall.Variance != 400 {
		t.Fatalf("unexpected overall %+v", result.Overall)
	}
	if result.Overall.EfficiencyScore != 80.95 {
		t.Fatalf("expected efficiencyScore 80.95 got %v", result.Overall.EfficiencyScore)
	}
	if result.Overall.BudgetHealth != "Excellent" {
		t.Fatalf("expected Excellent got %s", result.Overall.BudgetHealth)
	}
	if result.Overall.IsOverBudget {
		t.Fatalf("not over budget overall")
	}
	if result.TotalCategories != 3 {
		t.Fatalf("expected 3 categories got %d", result.TotalCategories)
	}
	// Food underspent by 50%, Fun exactly on budget: both non-negative.
	if len(result.TopPerformers) != 2 || result.TopPerformers[0].Category != "Food" {
		t.Fatalf("unexpected top performers %+v", result.TopPerformers)
	}
	if len(result.UnderPerformers) != 1 || result.UnderPerformers[0].Category != "Rent" {
		t.Fatalf("unexpected under performers %+v", result.UnderPerformers)
	}
	if result.UnderPerformers[0].Performance != "Warning" {
		t.Fatalf("110%% utilization should be Warning, got %s", result.UnderPerformers[0].Performance)
	}
}

func TestEnhancedAnalysisRemainingBudgetFloor(t *testing.T) {
	lines := []BudgetLine{{Month: "2025-06", Category: "Food", Amount: dec(100)}}
	over := tx("2025-06-10", Expense, 150)
	over.Category = "Food"
	result := EnhancedAnalysis(lines, []Transaction{over})
	if result.Overall.RemainingBudget != 0 {
		t.Fatalf("overspent budget must report 0 remaining, got %v", result.Overall.RemainingBudget)
	}
	if !result.Overall.IsOverBudget {
		t.Fatalf("expected over budget")
	}
}

func TestMonthlyBudgetPerformance(t *testing.T) {
	budgets := []Budget{
		{Month: "June", Category: "Food", Amount: dec(500)},
		{Month: "2025-06", Category: "Food", Amount: dec(400)},
		{Month: "2025-07", Category: "Food", Amount: dec(500)},
	}
	mk := func(date string, amount int64) Transaction {
		e := tx(date, Expense, amount)
		e.Category = "Food"
		return e
	}
	expenses := []Transaction{mk("2025-06-10", 250), mk("2025-07-10", 600)}

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
	result, err := MonthlyBudgetPerformance(budgets, expenses, start, end)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(result.MonthlyPerformance) != 2 {
		t.Fatalf("expected 2 months got %d", len(result.MonthlyPerformance))
	}
	june := result.MonthlyPerformance[0]
	// "June" and "2025-06" collapse to the larger amount.
	if june.Budgeted != 500 || june.Actual != 250 || june.Utilization != 50 {
		t.Fatalf("unexpected June row %+v", june)
	}
	july := result.MonthlyPerformance[1]
	if july.Utilization != 120 || !july.IsOverBudget {
		t.Fatalf("unexpected July row %+v", july)
	}
	if result.Insights.BestMonth == nil || result.Insights.BestMonth.Month != "2025-06" {
		t.Fatalf("unexpected best month %+v", result.Insights.BestMonth)
	}
	if result.Insights.WorstMonth == nil || result.Insights.WorstMonth.Month != "2025-07" {
		t.Fatalf("unexpected worst month %+v", result.Insights.WorstMonth)
	}
	if result.Insights.TrendDirection != "Increasing" {
		t.Fatalf("utilization rose, expected Increasing got %s", result.Insights.TrendDirection)
	}
	if result.Overall.TotalBudgeted != 1000 || result.Overall.Utilization != 85 {
		t.Fatalf("unexpected overall %+v", result.Overall)
	}
}

func TestMonthlyBudgetPerformanceEmpty(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	result, err := MonthlyBudgetPerformance(nil, nil, start, end)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	// Empty months still appear inside the first year of the window.
	if len(result.MonthlyPerformance) != 3 {
		t.Fatalf("expected 3 months got %d", len(result.MonthlyPerformance))
	}
	if result.Insights.BestMonth == nil {
		t.Fatalf("insights must still pick a month")
	}
}
