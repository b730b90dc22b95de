package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PerformanceFor labels a category's utilization percentage. Exactly
// 120 is still "Warning"; anything above is "Critical".
func PerformanceFor(utilization float64) string {
	switch {
	case utilization <= 80:
		return "Excellent"
	case utilization <= 100:
		return "On Track"
	case utilization <= 120:
		return "Warning"
	default:
		return "Critical"
	}
}

// budgetHealthFor buckets the efficiency score.
func budgetHealthFor(efficiency float64) string {
	switch {
	case efficiency >= 80:
		return "Excellent"
	case efficiency >= 60:
		return "Good"
	case efficiency >= 40:
		return "Fair"
	default:
		return "Poor"
	}
}

// VarianceRow is one line of the basic budget-vs-actual analysis.
type VarianceRow struct {
	Month    string  `json:"month"`
	Category string  `json:"category"`
	Budgeted float64 `json:"budgeted"`
	Actual   float64 `json:"actual"`
	Variance float64 `json:"variance"`
}

// VarianceAnalysis folds deduplicated budget lines down to one row per
// category over the whole range and subtracts the actual expense spend.
// Expenses in categories without a budget line are not attributed.
func VarianceAnalysis(lines []BudgetLine, expenses []Transaction) []VarianceRow {
	budgeted := make(map[string]decimal.Decimal)
	for _, l := range lines {
		budgeted[l.Category] = budgeted[l.Category].Add(l.Amount)
	}
	actual := make(map[string]decimal.Decimal)
	for _, tx := range expenses {
		if _, ok := budgeted[tx.Category]; ok {
			actual[tx.Category] = actual[tx.Category].Add(tx.Amount)
		}
	}
	rows := make([]VarianceRow, 0, len(budgeted))
	for cat, b := range budgeted {
		rows = append(rows, VarianceRow{
			Month:    "range",
			Category: cat,
			Budgeted: round2(b),
			Actual:   round2(actual[cat]),
			Variance: round2(b.Sub(actual[cat])),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return rows
}

// CategoryBreakdown is the per-category block shared by the utilization
// and enhanced analyses.
type CategoryBreakdown struct {
	Category           string  `json:"category"`
	Budgeted           float64 `json:"budgeted"`
	Actual             float64 `json:"actual"`
	Variance           float64 `json:"variance"`
	VariancePercentage float64 `json:"variancePercentage"`
	Utilization        float64 `json:"utilization"`
	Remaining          float64 `json:"remaining"`
	IsOverBudget       bool    `json:"isOverBudget"`
	Performance        string  `json:"performance"`
}

func breakdownByCategory(lines []BudgetLine, expenses []Transaction) []CategoryBreakdown {
	budgeted := make(map[string]decimal.Decimal)
	for _, l := range lines {
		budgeted[l.Category] = budgeted[l.Category].Add(l.Amount)
	}
	actual := make(map[string]decimal.Decimal)
	for _, tx := range expenses {
		if _, ok := budgeted[tx.Category]; ok {
			actual[tx.Category] = actual[tx.Category].Add(tx.Amount)
		}
	}
	out := make([]CategoryBreakdown, 0, len(budgeted))
	for cat, b := range budgeted {
		a := actual[cat]
		variance := b.Sub(a)
		util := round2(pct(a, b))
		out = append(out, CategoryBreakdown{
			Category:           cat,
			Budgeted:           round2(b),
			Actual:             round2(a),
			Variance:           round2(variance),
			VariancePercentage: round2(pct(variance, b)),
			Utilization:        util,
			Remaining:          round2(variance),
			IsOverBudget:       a.GreaterThan(b),
			Performance:        PerformanceFor(util),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// UtilizationOverall is the overall block of the utilization report.
type UtilizationOverall struct {
	TotalBudgeted         float64 `json:"totalBudgeted"`
	TotalActual           float64 `json:"totalActual"`
	UtilizationPercentage float64 `json:"utilizationPercentage"`
	RemainingBudget       float64 `json:"remainingBudget"`
	IsOverBudget          bool    `json:"isOverBudget"`
}

// UtilizationResult pairs overall utilization with its category split.
type UtilizationResult struct {
	Overall    UtilizationOverall  `json:"overall"`
	ByCategory []CategoryBreakdown `json:"byCategory"`
}

// Utilization computes actual spend against deduplicated budget lines.
// The overall actual includes expenses in unbudgeted categories; the
// category split only covers budgeted ones.
func Utilization(lines []BudgetLine, expenses []Transaction) UtilizationResult {
	totalBudgeted := decimal.Zero
	for _, l := range lines {
		totalBudgeted = totalBudgeted.Add(l.Amount)
	}
	totalActual := sumAmounts(expenses)
	return UtilizationResult{
		Overall: UtilizationOverall{
			TotalBudgeted:         round2(totalBudgeted),
			TotalActual:           round2(totalActual),
			UtilizationPercentage: round2(pct(totalActual, totalBudgeted)),
			RemainingBudget:       round2(totalBudgeted.Sub(totalActual)),
			IsOverBudget:          totalActual.GreaterThan(totalBudgeted),
		},
		ByCategory: breakdownByCategory(lines, expenses),
	}
}

// EnhancedOverall extends the utilization overall block with variance
// and efficiency metrics.
type EnhancedOverall struct {
	TotalBudgeted         float64 `json:"totalBudgeted"`
	TotalActual           float64 `json:"totalActual"`
	Variance              float64 `json:"variance"`
	VariancePercentage    float64 `json:"variancePercentage"`
	UtilizationPercentage float64 `json:"utilizationPercentage"`
	RemainingBudget       float64 `json:"remainingBudget"`
	IsOverBudget          bool    `json:"isOverBudget"`
	EfficiencyScore       float64 `json:"efficiencyScore"`
	BudgetHealth          string  `json:"budgetHealth"`
}

// EnhancedResult is the full enhanced budget analysis payload.
type EnhancedResult struct {
	Overall         EnhancedOverall     `json:"overall"`
	ByCategory      []CategoryBreakdown `json:"byCategory"`
	TopPerformers   []CategoryBreakdown `json:"topPerformers"`
	UnderPerformers []CategoryBreakdown `json:"underPerformers"`
	TotalCategories int                 `json:"totalCategories"`
}

// EnhancedAnalysis computes the variance/utilization report with
// per-category performance ratings and the top/under performer lists:
// categories sorted by |variance%| descending, the first three with
// non-negative variance on one side and the first three overspent on
// the other.
func EnhancedAnalysis(lines []BudgetLine, expenses []Transaction) EnhancedResult {
	totalBudgeted := decimal.Zero
	for _, l := range lines {
		totalBudgeted = totalBudgeted.Add(l.Amount)
	}
	totalActual := sumAmounts(expenses)
	variance := totalBudgeted.Sub(totalActual)
	variancePct := pct(variance, totalBudgeted)
	efficiency := math.Max(0, 100-math.Abs(mustF(variancePct)))

	byCategory := breakdownByCategory(lines, expenses)
	ranked := make([]CategoryBreakdown, len(byCategory))
	copy(ranked, byCategory)
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].VariancePercentage) > math.Abs(ranked[j].VariancePercentage)
	})
	top := make([]CategoryBreakdown, 0, 3)
	under := make([]CategoryBreakdown, 0, 3)
	for _, c := range ranked {
		if c.Variance >= 0 && len(top) < 3 {
			top = append(top, c)
		}
		if c.Variance < 0 && len(under) < 3 {
			under = append(under, c)
		}
	}

	remaining := variance
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return EnhancedResult{
		Overall: EnhancedOverall{
			TotalBudgeted:         round2(totalBudgeted),
			TotalActual:           round2(totalActual),
			Variance:              round2(variance),
			VariancePercentage:    round2(variancePct),
			UtilizationPercentage: round2(pct(totalActual, totalBudgeted)),
			RemainingBudget:       round2(remaining),
			IsOverBudget:          totalActual.GreaterThan(totalBudgeted),
			EfficiencyScore:       round2(decimal.NewFromFloat(efficiency)),
			BudgetHealth:          budgetHealthFor(efficiency),
		},
		ByCategory:      byCategory,
		TopPerformers:   top,
		UnderPerformers: under,
		TotalCategories: len(byCategory),
	}
}

// MonthPerformance is one month of the budget performance series.
type MonthPerformance struct {
	Month        string  `json:"month"`
	MonthName    string  `json:"monthName"`
	Year         int     `json:"year"`
	Budgeted     float64 `json:"budgeted"`
	Actual       float64 `json:"actual"`
	Variance     float64 `json:"variance"`
	Utilization  float64 `json:"utilization"`
	IsOverBudget bool    `json:"isOverBudget"`
}

// UtilizationPoint is one step of the utilization trend line.
type UtilizationPoint struct {
	Month       string  `json:"month"`
	Utilization float64 `json:"utilization"`
	Trend       float64 `json:"trend"`
}

// PerformanceOverall aggregates the whole performance window.
type PerformanceOverall struct {
	TotalBudgeted        float64 `json:"totalBudgeted"`
	TotalActual          float64 `json:"totalActual"`
	Variance             float64 `json:"variance"`
	Utilization          float64 `json:"utilization"`
	AverageMonthlyBudget float64 `json:"averageMonthlyBudget"`
	AverageMonthlyActual float64 `json:"averageMonthlyActual"`
}

// PerformanceInsights names the best and worst months by utilization.
type PerformanceInsights struct {
	BestMonth      *MonthPerformance `json:"bestMonth"`
	WorstMonth     *MonthPerformance `json:"worstMonth"`
	TrendDirection string            `json:"trendDirection"`
}

// PerformanceResult is the month-by-month budget performance payload.
type PerformanceResult struct {
	Overall            PerformanceOverall  `json:"overall"`
	MonthlyPerformance []MonthPerformance  `json:"monthlyPerformance"`
	UtilizationTrend   []UtilizationPoint  `json:"utilizationTrend"`
	Insights           PerformanceInsights `json:"performanceInsights"`
}

// MonthlyBudgetPerformance walks every calendar month between start and
// end, matches raw budgets onto the month (canonical key or month name,
// max amount per category), sums the month's expenses and derives the
// utilization trend. Months without any data beyond the first twelve
// are dropped from the series.
func MonthlyBudgetPerformance(budgets []Budget, expenses []Transaction, start, end time.Time) (PerformanceResult, error) {
	startMonth := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1

	series := make([]MonthPerformance, 0, months)
	for i := 0; i < months; i++ {
		cur := startMonth.AddDate(0, i, 0)
		monthKey, err := CanonicalMonth(cur.Format("2006-01"), cur.Year())
		if err != nil {
			return PerformanceResult{}, err
		}

		// Per-category max keeps duplicate spellings from double counting.
		perCategory := make(map[string]decimal.Decimal)
		for _, b := range budgets {
			key, err := CanonicalMonth(b.Month, cur.Year())
			if err != nil {
				return PerformanceResult{}, err
			}
			if key != monthKey {
				continue
			}
			if prev, ok := perCategory[b.Category]; !ok || b.Amount.GreaterThan(prev) {
				perCategory[b.Category] = b.Amount
			}
		}
		budgeted := decimal.Zero
		for _, v := range perCategory {
			budgeted = budgeted.Add(v)
		}

		next := cur.AddDate(0, 1, 0)
		actual := decimal.Zero
		for _, tx := range expenses {
			if tx.Type == Expense && !tx.Date.Before(cur) && tx.Date.Before(next) {
				actual = actual.Add(tx.Amount)
			}
		}

		if budgeted.IsPositive() || actual.IsPositive() || i < 12 {
			series = append(series, MonthPerformance{
				Month:        monthKey,
				MonthName:    cur.Month().String(),
				Year:         cur.Year(),
				Budgeted:     round2(budgeted),
				Actual:       round2(actual),
				Variance:     round2(budgeted.Sub(actual)),
				Utilization:  round2(pct(actual, budgeted)),
				IsOverBudget: actual.GreaterThan(budgeted),
			})
		}
	}

	var totalBudgeted, totalActual float64
	for _, m := range series {
		totalBudgeted += m.Budgeted
		totalActual += m.Actual
	}

	trend := make([]UtilizationPoint, len(series))
	for i, m := range series {
		p := UtilizationPoint{Month: m.Month, Utilization: m.Utilization}
		if i > 0 {
			p.Trend = round2(decimal.NewFromFloat(m.Utilization - series[i-1].Utilization))
		}
		trend[i] = p
	}

	result := PerformanceResult{
		MonthlyPerformance: series,
		UtilizationTrend:   trend,
		Insights:           PerformanceInsights{TrendDirection: "Decreasing"},
	}
	overallUtil := decimal.Zero
	if totalBudgeted > 0 {
		overallUtil = decimal.NewFromFloat(totalActual / totalBudgeted * 100)
	}
	avgDiv := float64(months)
	if avgDiv == 0 {
		avgDiv = 1
	}
	result.Overall = PerformanceOverall{
		TotalBudgeted:        round2(decimal.NewFromFloat(totalBudgeted)),
		TotalActual:          round2(decimal.NewFromFloat(totalActual)),
		Variance:             round2(decimal.NewFromFloat(totalBudgeted - totalActual)),
		Utilization:          round2(overallUtil),
		AverageMonthlyBudget: round2(decimal.NewFromFloat(totalBudgeted / avgDiv)),
		AverageMonthlyActual: round2(decimal.NewFromFloat(totalActual / avgDiv)),
	}

	if len(series) > 0 {
		best, worst := series[0], series[0]
		for _, m := range series[1:] {
			if m.Utilization < best.Utilization {
				best = m
			}
			if m.Utilization > worst.Utilization {
				worst = m
			}
		}
		result.Insights.BestMonth = &best
		result.Insights.WorstMonth = &worst
		if trend[len(trend)-1].Trend > 0 {
			result.Insights.TrendDirection = "Increasing"
		}
	}
	return result, nil
}
