package analytics

import (
	"github.com/shopspring/decimal"
)

// MonthlyTrendPoint is one month of the expense trend line.
type MonthlyTrendPoint struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// MonthlyExpenseTrends sums expense amounts per calendar month, ordered
// ascending by (year, month). Labels use the "6-2025" form the line
// chart expects.
func MonthlyExpenseTrends(txs []Transaction) []MonthlyTrendPoint {
	stats := AggregateByPeriod(FilterTransactions(txs, TxFilter{Type: Expense}), Monthly)
	points := make([]MonthlyTrendPoint, len(stats))
	for i, s := range stats {
		points[i] = MonthlyTrendPoint{Month: s.Period, Total: s.Total}
	}
	return points
}

// CashFlowPoint is one period of the cash flow series.
type CashFlowPoint struct {
	Period      string  `json:"period"`
	Income      float64 `json:"income"`
	Expense     float64 `json:"expense"`
	NetCashFlow float64 `json:"netCashFlow"`
	PeriodNum   int     `json:"periodNum"`
	Year        int     `json:"year"`
}

// CashFlowTrends nets income against expense per month or ISO week.
// Periods seen on only one side still appear, with the other side zero.
func CashFlowTrends(txs []Transaction, groupBy GroupBy) []CashFlowPoint {
	type key struct{ periodNum, year int }
	type flow struct{ income, expense decimal.Decimal }
	flows := make(map[key]*flow)
	for _, tx := range txs {
		p, y := periodOf(tx, groupBy)
		k := key{p, y}
		f, ok := flows[k]
		if !ok {
			f = &flow{}
			flows[k] = f
		}
		if tx.Type == Income {
			f.income = f.income.Add(tx.Amount)
		} else {
			f.expense = f.expense.Add(tx.Amount)
		}
	}
	points := make([]CashFlowPoint, 0, len(flows))
	for k, f := range flows {
		points = append(points, CashFlowPoint{
			Period:      periodLabel(k.periodNum, k.year, groupBy),
			Income:      round2(f.income),
			Expense:     round2(f.expense),
			NetCashFlow: round2(f.income.Sub(f.expense)),
			PeriodNum:   k.periodNum,
			Year:        k.year,
		})
	}
	sortByPeriod(points, func(p CashFlowPoint) (int, int) { return p.Year, p.PeriodNum })
	return points
}

// FlowStats is one side (income or expense) of a comprehensive trend
// period.
type FlowStats struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// TrendPoint is one period of the comprehensive trend series.
type TrendPoint struct {
	Period       string    `json:"period"`
	PeriodNum    int       `json:"periodNum"`
	Year         int       `json:"year"`
	Income       FlowStats `json:"income"`
	Expense      FlowStats `json:"expense"`
	NetAmount    float64   `json:"netAmount"`
	ProfitMargin float64   `json:"profitMargin"`
}

// TrendSummary aggregates the whole comprehensive trend window.
type TrendSummary struct {
	TotalIncome    float64 `json:"totalIncome"`
	TotalExpense   float64 `json:"totalExpense"`
	TotalNet       float64 `json:"totalNet"`
	AverageIncome  float64 `json:"averageIncome"`
	AverageExpense float64 `json:"averageExpense"`
	TotalPeriods   int     `json:"totalPeriods"`
	GroupBy        GroupBy `json:"groupBy"`
}

// TrendsResult is the comprehensive trends payload.
type TrendsResult struct {
	GroupBy GroupBy      `json:"groupBy"`
	Summary TrendSummary `json:"summary"`
	Trends  []TrendPoint `json:"trends"`
	Period  string       `json:"period"`
}

// ComprehensiveTrends produces both flow sides per period with counts,
// averages and the period's profit margin (net/income*100, zero when
// there is no income).
func ComprehensiveTrends(txs []Transaction, groupBy GroupBy, period string) TrendsResult {
	type key struct{ periodNum, year int }
	type acc struct {
		income, expense           decimal.Decimal
		incomeCount, expenseCount int
	}
	accs := make(map[key]*acc)
	for _, tx := range txs {
		p, y := periodOf(tx, groupBy)
		k := key{p, y}
		a, ok := accs[k]
		if !ok {
			a = &acc{}
			accs[k] = a
		}
		if tx.Type == Income {
			a.income = a.income.Add(tx.Amount)
			a.incomeCount++
		} else {
			a.expense = a.expense.Add(tx.Amount)
			a.expenseCount++
		}
	}

	avg := func(total decimal.Decimal, count int) float64 {
		if count == 0 {
			return 0
		}
		return round2(total.Div(decimal.NewFromInt(int64(count))))
	}

	points := make([]TrendPoint, 0, len(accs))
	totalIncome, totalExpense := decimal.Zero, decimal.Zero
	for k, a := range accs {
		net := a.income.Sub(a.expense)
		points = append(points, TrendPoint{
			Period:       periodLabel(k.periodNum, k.year, groupBy),
			PeriodNum:    k.periodNum,
			Year:         k.year,
			Income:       FlowStats{Total: round2(a.income), Count: a.incomeCount, Average: avg(a.income, a.incomeCount)},
			Expense:      FlowStats{Total: round2(a.expense), Count: a.expenseCount, Average: avg(a.expense, a.expenseCount)},
			NetAmount:    round2(net),
			ProfitMargin: round2(pct(net, a.income)),
		})
		totalIncome = totalIncome.Add(a.income)
		totalExpense = totalExpense.Add(a.expense)
	}
	sortByPeriod(points, func(p TrendPoint) (int, int) { return p.Year, p.PeriodNum })

	summary := TrendSummary{
		TotalIncome:  round2(totalIncome),
		TotalExpense: round2(totalExpense),
		TotalNet:     round2(totalIncome.Sub(totalExpense)),
		TotalPeriods: len(points),
		GroupBy:      groupBy,
	}
	if len(points) > 0 {
		n := decimal.NewFromInt(int64(len(points)))
		summary.AverageIncome = round2(totalIncome.Div(n))
		summary.AverageExpense = round2(totalExpense.Div(n))
	}

	return TrendsResult{GroupBy: groupBy, Summary: summary, Trends: points, Period: period}
}

// WeeklyTrendPoint is one ISO week of the weekly income or expense
// trend series.
type WeeklyTrendPoint struct {
	Week    string  `json:"week"`
	WeekNum int     `json:"weekNum"`
	Year    int     `json:"year"`
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// WeeklyTrends aggregates one transaction type per ISO week, ordered by
// (year, weekNum) so the first weeks of a year sort after the last
// weeks of the previous one.
func WeeklyTrends(txs []Transaction, txType TransactionType) []WeeklyTrendPoint {
	stats := AggregateByPeriod(FilterTransactions(txs, TxFilter{Type: txType}), Weekly)
	points := make([]WeeklyTrendPoint, len(stats))
	for i, s := range stats {
		points[i] = WeeklyTrendPoint{
			Week:    s.Period,
			WeekNum: s.PeriodNum,
			Year:    s.Year,
			Total:   s.Total,
			Count:   s.Count,
			Average: s.Average,
		}
	}
	return points
}
