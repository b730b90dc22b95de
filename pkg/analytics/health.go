package analytics

import (
	"github.com/shopspring/decimal"
)

// Component weights of the composite health score.
const (
	weightLiquidity        = 0.25
	weightDebtManagement   = 0.25
	weightSavings          = 0.20
	weightBudgetDiscipline = 0.20
	weightIncomeStability  = 0.10
)

// ComponentScores are the five 0-100 inputs to the composite score.
type ComponentScores struct {
	Liquidity        float64 `json:"liquidity"`
	DebtManagement   float64 `json:"debtManagement"`
	Savings          float64 `json:"savings"`
	BudgetDiscipline float64 `json:"budgetDiscipline"`
	IncomeStability  float64 `json:"incomeStability"`
}

// HealthOverall is the headline block of the health report.
type HealthOverall struct {
	CompositeScore  float64  `json:"compositeScore"`
	HealthGrade     string   `json:"healthGrade"`
	HealthStatus    string   `json:"healthStatus"`
	Recommendations []string `json:"recommendations"`
}

// FinancialMetrics summarizes the latest balance sheet. Nil when the
// user has no snapshot in range.
type FinancialMetrics struct {
	CurrentRatio      *float64 `json:"currentRatio"`
	DebtToEquityRatio *float64 `json:"debtToEquityRatio"`
	NetWorth          float64  `json:"netWorth"`
	WorkingCapital    float64  `json:"workingCapital"`
	TotalAssets       float64  `json:"totalAssets"`
	TotalLiabilities  float64  `json:"totalLiabilities"`
	TotalEquity       float64  `json:"totalEquity"`
}

// TransactionMetrics summarizes the filtered transaction set.
type TransactionMetrics struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	NetIncome    float64 `json:"netIncome"`
	SavingsRate  float64 `json:"savingsRate"`
}

// BudgetMetrics summarizes budget performance for the same period.
type BudgetMetrics struct {
	TotalBudgeted     float64 `json:"totalBudgeted"`
	BudgetUtilization float64 `json:"budgetUtilization"`
	BudgetVariance    float64 `json:"budgetVariance"`
}

// HealthReport is the full financial health score payload.
type HealthReport struct {
	Overall            HealthOverall      `json:"overall"`
	ComponentScores    ComponentScores    `json:"componentScores"`
	FinancialMetrics   *FinancialMetrics  `json:"financialMetrics"`
	TransactionMetrics TransactionMetrics `json:"transactionMetrics"`
	BudgetMetrics      BudgetMetrics      `json:"budgetMetrics"`
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// HealthScore combines liquidity, debt management, savings rate, budget
// discipline and income stability into one weighted 0-100 score with a
// letter grade and fixed recommendations. latest may be nil (no balance
// sheet in range); transactions and budgets are the caller's filtered
// and deduplicated sets.
func HealthScore(latest *BalanceSheet, transactions []Transaction, budgets []BudgetLine) HealthReport {
	totalIncome := sumAmounts(FilterTransactions(transactions, TxFilter{Type: Income}))
	totalExpense := sumAmounts(FilterTransactions(transactions, TxFilter{Type: Expense}))
	netIncome := totalIncome.Sub(totalExpense)

	savingsRate := decimal.Zero
	if totalIncome.IsPositive() {
		savingsRate = pct(netIncome, totalIncome)
	}

	totalBudgeted := decimal.Zero
	for _, b := range budgets {
		totalBudgeted = totalBudgeted.Add(b.Amount)
	}
	utilization := pct(totalExpense, totalBudgeted)

	scores := ComponentScores{
		Liquidity:        50,
		DebtManagement:   50,
		Savings:          clampScore(mustF(savingsRate) * 2),
		BudgetDiscipline: 50,
		IncomeStability:  50,
	}

	if latest != nil {
		if cr, ok := CurrentRatio(*latest); ok {
			scores.Liquidity = clampScore(mustF(cr) * 25)
		} else {
			scores.Liquidity = 100
		}
		if de, ok := DebtToEquityRatio(*latest); ok {
			scores.DebtManagement = clampScore(100 - mustF(de)*100)
		}
	}

	if totalBudgeted.IsPositive() {
		u := mustF(utilization)
		if totalExpense.LessThanOrEqual(totalBudgeted) {
			scores.BudgetDiscipline = clampScore(100 - u)
		} else {
			// Over-budget is penalized twice as steeply as staying
			// under budget is rewarded.
			scores.BudgetDiscipline = clampScore(100 - (u-100)*2)
		}
	}

	hasIncome := false
	for _, tx := range transactions {
		if tx.Type == Income {
			hasIncome = true
			break
		}
	}
	if hasIncome {
		denom := decimal.Max(totalIncome, decimal.NewFromInt(1))
		drift := mustF(netIncome.Abs().Div(denom)) * 50
		scores.IncomeStability = clampScore(100 - drift)
	}

	composite := scores.Liquidity*weightLiquidity +
		scores.DebtManagement*weightDebtManagement +
		scores.Savings*weightSavings +
		scores.BudgetDiscipline*weightBudgetDiscipline +
		scores.IncomeStability*weightIncomeStability

	grade, status, recs := gradeFor(composite)

	report := HealthReport{
		Overall: HealthOverall{
			CompositeScore:  round2(decimal.NewFromFloat(composite)),
			HealthGrade:     grade,
			HealthStatus:    status,
			Recommendations: recs,
		},
		ComponentScores: ComponentScores{
			Liquidity:        round2(decimal.NewFromFloat(scores.Liquidity)),
			DebtManagement:   round2(decimal.NewFromFloat(scores.DebtManagement)),
			Savings:          round2(decimal.NewFromFloat(scores.Savings)),
			BudgetDiscipline: round2(decimal.NewFromFloat(scores.BudgetDiscipline)),
			IncomeStability:  round2(decimal.NewFromFloat(scores.IncomeStability)),
		},
		TransactionMetrics: TransactionMetrics{
			TotalIncome:  round2(totalIncome),
			TotalExpense: round2(totalExpense),
			NetIncome:    round2(netIncome),
			SavingsRate:  round2(savingsRate),
		},
		BudgetMetrics: BudgetMetrics{
			TotalBudgeted:     round2(totalBudgeted),
			BudgetUtilization: round2(utilization),
			BudgetVariance:    round2(totalBudgeted.Sub(totalExpense)),
		},
	}

	if latest != nil {
		fm := &FinancialMetrics{
			NetWorth:         round2(NetWorth(*latest)),
			WorkingCapital:   round2(WorkingCapital(*latest)),
			TotalAssets:      round2(latest.CurrentAssets),
			TotalLiabilities: round2(latest.TotalLiabilities),
			TotalEquity:      round2(latest.TotalEquity),
		}
		if cr, ok := CurrentRatio(*latest); ok {
			fm.CurrentRatio = round2p(cr)
		}
		if de, ok := DebtToEquityRatio(*latest); ok {
			fm.DebtToEquityRatio = round2p(de)
		}
		report.FinancialMetrics = fm
	}
	return report
}

func mustF(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// gradeFor maps a composite score onto its grade, status and fixed
// recommendation set. Thresholds are inclusive lower bounds.
func gradeFor(score float64) (grade, status string, recommendations []string) {
	switch {
	case score >= 90:
		return "A+", "Excellent", []string{
			"Maintain current financial practices",
			"Consider investment opportunities",
			"Continue building emergency fund",
		}
	case score >= 80:
		return "A", "Very Good", []string{
			"Focus on increasing savings rate",
			"Optimize budget allocation",
			"Consider debt reduction strategies",
		}
	case score >= 70:
		return "B+", "Good", []string{
			"Improve budget discipline",
			"Increase emergency fund",
			"Review debt management",
		}
	case score >= 60:
		return "B", "Fair", []string{
			"Reduce unnecessary expenses",
			"Create strict budget plan",
			"Focus on debt reduction",
		}
	case score >= 50:
		return "C", "Needs Improvement", []string{
			"Emergency financial review needed",
			"Reduce debt immediately",
			"Seek financial counseling",
		}
	default:
		return "D", "Critical", []string{
			"Immediate financial intervention required",
			"Contact financial advisor",
			"Consider debt consolidation",
		}
	}
}
