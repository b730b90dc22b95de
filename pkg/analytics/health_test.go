package analytics

import (
	"testing"
)

func TestHealthScoreNoBalanceSheet(t *testing.T) {
	txs := []Transaction{
		tx("2025-06-01", Income, 10000),
		tx("2025-06-10", Expense, 7000),
	}
	report := HealthScore(nil, txs, nil)

	if report.ComponentScores.Liquidity != 50 || report.ComponentScores.DebtManagement != 50 {
		t.Fatalf("missing balance sheet must default liquidity/debt to 50, got %+v", report.ComponentScores)
	}
	// savingsRate = 30, savings score = 60.
	if report.ComponentScores.Savings != 60 {
		t.Fatalf("expected savings 60 got %v", report.ComponentScores.Savings)
	}
	// |netIncome|/income*50 = 15 off a 100 base.
	if report.ComponentScores.IncomeStability != 85 {
		t.Fatalf("expected incomeStability 85 got %v", report.ComponentScores.IncomeStability)
	}
	if report.Overall.CompositeScore != 55.5 {
		t.Fatalf("expected composite 55.5 got %v", report.Overall.CompositeScore)
	}
	if report.Overall.HealthGrade != "C" || report.Overall.HealthStatus != "Needs Improvement" {
		t.Fatalf("unexpected grade %s/%s", report.Overall.HealthGrade, report.Overall.HealthStatus)
	}
	if len(report.Overall.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations got %d", len(report.Overall.Recommendations))
	}
	if report.FinancialMetrics != nil {
		t.Fatalf("financialMetrics must be nil without a balance sheet")
	}
	if report.TransactionMetrics.NetIncome != 3000 || report.TransactionMetrics.SavingsRate != 30 {
		t.Fatalf("unexpected transaction metrics %+v", report.TransactionMetrics)
	}
}

func TestHealthScoreZeroLiabilitiesLiquidity(t *testing.T) {
	bs := sheet("2025-06-01", 1000, 0, 200, 800)
	report := HealthScore(&bs, nil, nil)
	if report.ComponentScores.Liquidity != 100 {
		t.Fatalf("no current liabilities must score liquidity 100, got %v", report.ComponentScores.Liquidity)
	}
	// debtToEquity 0.25 → 100 - 25 = 75.
	if report.ComponentScores.DebtManagement != 75 {
		t.Fatalf("expected debtManagement 75 got %v", report.ComponentScores.DebtManagement)
	}
	if report.FinancialMetrics == nil || report.FinancialMetrics.CurrentRatio != nil {
		t.Fatalf("currentRatio must stay nil in the metrics block")
	}
}

func TestHealthScoreBudgetDiscipline(t *testing.T) {
	budgets := []BudgetLine{{Month: "2025-06", Category: "Food", Amount: dec(1000)}}

	under := HealthScore(nil, []Transaction{tx("2025-06-05", Expense, 600)}, budgets)
	if under.ComponentScores.BudgetDiscipline != 40 {
		t.Fatalf("60%% utilization should score 40, got %v", under.ComponentScores.BudgetDiscipline)
	}

	// 120% utilization: 100 - (120-100)*2 = 60.
	over := HealthScore(nil, []Transaction{tx("2025-06-05", Expense, 1200)}, budgets)
	if over.ComponentScores.BudgetDiscipline != 60 {
		t.Fatalf("120%% utilization should score 60, got %v", over.ComponentScores.BudgetDiscipline)
	}
	if over.BudgetMetrics.BudgetUtilization != 120 || over.BudgetMetrics.BudgetVariance != -200 {
		t.Fatalf("unexpected budget metrics %+v", over.BudgetMetrics)
	}
}

func TestHealthScoreBounds(t *testing.T) {
	bs := sheet("2025-06-01", 0, 10, 100000, 1)
	txs := []Transaction{
		tx("2025-06-01", Income, 1),
		tx("2025-06-02", Expense, 100000),
	}
	budgets := []BudgetLine{{Month: "2025-06", Category: "Food", Amount: dec(1)}}
	report := HealthScore(&bs, txs, budgets)

	scores := []float64{
		report.ComponentScores.Liquidity,
		report.ComponentScores.DebtManagement,
		report.ComponentScores.Savings,
		report.ComponentScores.BudgetDiscipline,
		report.ComponentScores.IncomeStability,
		report.Overall.CompositeScore,
	}
	for i, s := range scores {
		if s < 0 || s > 100 {
			t.Fatalf("score %d out of bounds: %v", i, s)
		}
	}
	if report.Overall.HealthGrade != "D" {
		t.Fatalf("expected grade D got %s", report.Overall.HealthGrade)
	}
}

func TestHealthScoreEmptyInputs(t *testing.T) {
	report := HealthScore(nil, nil, nil)
	// Liquidity, debt and income stability default to 50, budget
	// discipline to 50, but savings is 0 when there is no income:
	// 50*.25 + 50*.25 + 0*.20 + 50*.20 + 50*.10 = 40.
	if report.ComponentScores.Savings != 0 {
		t.Fatalf("no income must score savings 0, got %v", report.ComponentScores.Savings)
	}
	if report.Overall.CompositeScore != 40 {
		t.Fatalf("expected composite 40, got %v", report.Overall.CompositeScore)
	}
	if report.Overall.HealthGrade != "D" {
		t.Fatalf("expected grade D got %s", report.Overall.HealthGrade)
	}
}
