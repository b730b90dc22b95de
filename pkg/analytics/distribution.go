package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultDistributionLimit bounds how many categories a distribution
// query returns before the Others rollup.
const DefaultDistributionLimit = 10

type categoryAgg struct {
	name    string
	total   decimal.Decimal
	count   int
	average decimal.Decimal
	share   decimal.Decimal
}

// aggregateByKey groups transactions under key, orders them by total
// descending (name ascending on ties) and truncates to limit. The share
// percentages are computed against the truncated set's total, matching
// what the pie chart actually displays.
func aggregateByKey(txs []Transaction, key func(Transaction) string, limit int) ([]categoryAgg, decimal.Decimal) {
	totals := make(map[string]*categoryAgg)
	for _, tx := range txs {
		k := key(tx)
		a, ok := totals[k]
		if !ok {
			a = &categoryAgg{name: k}
			totals[k] = a
		}
		a.total = a.total.Add(tx.Amount)
		a.count++
	}
	aggs := make([]categoryAgg, 0, len(totals))
	for _, a := range totals {
		a.average = a.total.Div(decimal.NewFromInt(int64(a.count)))
		aggs = append(aggs, *a)
	}
	sort.Slice(aggs, func(i, j int) bool {
		if !aggs[i].total.Equal(aggs[j].total) {
			return aggs[i].total.GreaterThan(aggs[j].total)
		}
		return aggs[i].name < aggs[j].name
	})
	if limit <= 0 {
		limit = DefaultDistributionLimit
	}
	if len(aggs) > limit {
		aggs = aggs[:limit]
	}
	grandTotal := decimal.Zero
	for _, a := range aggs {
		grandTotal = grandTotal.Add(a.total)
	}
	for i := range aggs {
		aggs[i].share = pct(aggs[i].total, grandTotal)
	}
	return aggs, grandTotal
}

// rollupOthers keeps the first five entries and folds the rest into a
// single synthetic entry named rollupName.
func rollupOthers(aggs []categoryAgg, grandTotal decimal.Decimal, rollupName string) []categoryAgg {
	if len(aggs) <= 5 {
		return aggs
	}
	final := make([]categoryAgg, 5, 6)
	copy(final, aggs[:5])
	other := categoryAgg{name: rollupName}
	for _, a := range aggs[5:] {
		other.total = other.total.Add(a.total)
		other.count += a.count
	}
	if other.count > 0 {
		other.average = other.total.Div(decimal.NewFromInt(int64(other.count)))
	}
	other.share = pct(other.total, grandTotal)
	return append(final, other)
}

// IncomeCategorySlice is one slice of the income pie chart.
type IncomeCategorySlice struct {
	Category         string  `json:"category"`
	TotalIncome      float64 `json:"totalIncome"`
	TransactionCount int     `json:"transactionCount"`
	AverageAmount    float64 `json:"averageAmount"`
	Percentage       float64 `json:"percentage"`
}

// IncomeDistribution is the category-wise income payload.
type IncomeDistribution struct {
	TotalIncome     float64               `json:"totalIncome"`
	TotalCategories int                   `json:"totalCategories"`
	TopCategories   []IncomeCategorySlice `json:"topCategories"`
	ChartData       []IncomeCategorySlice `json:"chartData"`
	Period          string                `json:"period"`
}

// DistributeIncome breaks the income transactions down by category:
// top categories sorted by total descending, capped at limit, with
// anything past the fifth slice rolled up into "Others" for the chart.
func DistributeIncome(txs []Transaction, limit int, period string) IncomeDistribution {
	income := FilterTransactions(txs, TxFilter{Type: Income})
	aggs, grandTotal := aggregateByKey(income, func(tx Transaction) string { return tx.Category }, limit)

	toSlice := func(a categoryAgg) IncomeCategorySlice {
		return IncomeCategorySlice{
			Category:         a.name,
			TotalIncome:      round2(a.total),
			TransactionCount: a.count,
			AverageAmount:    round2(a.average),
			Percentage:       round2(a.share),
		}
	}
	top := make([]IncomeCategorySlice, 0, 5)
	for _, a := range aggs {
		if len(top) == 5 {
			break
		}
		top = append(top, toSlice(a))
	}
	chart := make([]IncomeCategorySlice, 0, 6)
	for _, a := range rollupOthers(aggs, grandTotal, "Others") {
		chart = append(chart, toSlice(a))
	}
	return IncomeDistribution{
		TotalIncome:     round2(grandTotal),
		TotalCategories: len(aggs),
		TopCategories:   top,
		ChartData:       chart,
		Period:          period,
	}
}

// ExpenseCategorySlice is one slice of the expense pie chart.
type ExpenseCategorySlice struct {
	Category         string  `json:"category"`
	TotalExpense     float64 `json:"totalExpense"`
	TransactionCount int     `json:"transactionCount"`
	AverageAmount    float64 `json:"averageAmount"`
	Percentage       float64 `json:"percentage"`
}

// ExpenseDistribution is the category-wise expense payload.
type ExpenseDistribution struct {
	TotalExpense    float64                `json:"totalExpense"`
	TotalCategories int                    `json:"totalCategories"`
	TopCategories   []ExpenseCategorySlice `json:"topCategories"`
	ChartData       []ExpenseCategorySlice `json:"chartData"`
	Period          string                 `json:"period"`
}

// DistributeExpense mirrors DistributeIncome for the expense side.
func DistributeExpense(txs []Transaction, limit int, period string) ExpenseDistribution {
	expense := FilterTransactions(txs, TxFilter{Type: Expense})
	aggs, grandTotal := aggregateByKey(expense, func(tx Transaction) string { return tx.Category }, limit)

	toSlice := func(a categoryAgg) ExpenseCategorySlice {
		return ExpenseCategorySlice{
			Category:         a.name,
			TotalExpense:     round2(a.total),
			TransactionCount: a.count,
			AverageAmount:    round2(a.average),
			Percentage:       round2(a.share),
		}
	}
	top := make([]ExpenseCategorySlice, 0, 5)
	for _, a := range aggs {
		if len(top) == 5 {
			break
		}
		top = append(top, toSlice(a))
	}
	chart := make([]ExpenseCategorySlice, 0, 6)
	for _, a := range rollupOthers(aggs, grandTotal, "Others") {
		chart = append(chart, toSlice(a))
	}
	return ExpenseDistribution{
		TotalExpense:    round2(grandTotal),
		TotalCategories: len(aggs),
		TopCategories:   top,
		ChartData:       chart,
		Period:          period,
	}
}

// MethodSlice is one payment method's aggregate, split into income and
// expense flows.
type MethodSlice struct {
	PaymentMethod            string  `json:"paymentMethod"`
	TotalAmount              float64 `json:"totalAmount"`
	TransactionCount         int     `json:"transactionCount"`
	AverageAmount            float64 `json:"averageAmount"`
	IncomeAmount             float64 `json:"incomeAmount"`
	ExpenseAmount            float64 `json:"expenseAmount"`
	PercentageOfTotal        float64 `json:"percentageOfTotal"`
	PercentageOfTransactions float64 `json:"percentageOfTransactions"`
}

// MethodSummary is the headline block of the payment method analysis.
type MethodSummary struct {
	TotalAmount          float64 `json:"totalAmount"`
	TotalTransactions    int     `json:"totalTransactions"`
	UniquePaymentMethods int     `json:"uniquePaymentMethods"`
	MostUsedMethod       string  `json:"mostUsedMethod"`
	HighestAmountMethod  string  `json:"highestAmountMethod"`
}

// MethodAnalysis is the payment method analysis payload.
type MethodAnalysis struct {
	Summary         MethodSummary `json:"summary"`
	TopMethods      []MethodSlice `json:"topMethods"`
	ChartData       []MethodSlice `json:"chartData"`
	Period          string        `json:"period"`
	TransactionType string        `json:"transactionType"`
}

// AnalyzePaymentMethods groups transactions by payment method with
// per-method income/expense splits. txType narrows the input to one
// transaction type; empty means both.
func AnalyzePaymentMethods(txs []Transaction, txType TransactionType, limit int, period string) MethodAnalysis {
	matched := FilterTransactions(txs, TxFilter{Type: txType})
	aggs, grandTotal := aggregateByKey(matched, func(tx Transaction) string { return tx.PaymentMethod }, limit)

	income := make(map[string]decimal.Decimal)
	expense := make(map[string]decimal.Decimal)
	for _, tx := range matched {
		if tx.Type == Income {
			income[tx.PaymentMethod] = income[tx.PaymentMethod].Add(tx.Amount)
		} else {
			expense[tx.PaymentMethod] = expense[tx.PaymentMethod].Add(tx.Amount)
		}
	}
	totalCount := 0
	for _, a := range aggs {
		totalCount += a.count
	}

	toSlice := func(a categoryAgg, incomeAmt, expenseAmt decimal.Decimal) MethodSlice {
		return MethodSlice{
			PaymentMethod:            a.name,
			TotalAmount:              round2(a.total),
			TransactionCount:         a.count,
			AverageAmount:            round2(a.average),
			IncomeAmount:             round2(incomeAmt),
			ExpenseAmount:            round2(expenseAmt),
			PercentageOfTotal:        round2(a.share),
			PercentageOfTransactions: round2(pct(decimal.NewFromInt(int64(a.count)), decimal.NewFromInt(int64(totalCount)))),
		}
	}

	top := make([]MethodSlice, 0, 5)
	for _, a := range aggs {
		if len(top) == 5 {
			break
		}
		top = append(top, toSlice(a, income[a.name], expense[a.name]))
	}
	chart := make([]MethodSlice, 0, 6)
	if len(aggs) <= 5 {
		chart = append(chart, top...)
	} else {
		chart = append(chart, top...)
		var other categoryAgg
		otherIncome, otherExpense := decimal.Zero, decimal.Zero
		for _, a := range aggs[5:] {
			other.total = other.total.Add(a.total)
			other.count += a.count
			otherIncome = otherIncome.Add(income[a.name])
			otherExpense = otherExpense.Add(expense[a.name])
		}
		other.name = "Others"
		if other.count > 0 {
			other.average = other.total.Div(decimal.NewFromInt(int64(other.count)))
		}
		other.share = pct(other.total, grandTotal)
		chart = append(chart, toSlice(other, otherIncome, otherExpense))
	}

	summary := MethodSummary{
		TotalAmount:          round2(grandTotal),
		TotalTransactions:    totalCount,
		UniquePaymentMethods: len(aggs),
		MostUsedMethod:       "None",
		HighestAmountMethod:  "None",
	}
	if len(top) > 0 {
		summary.MostUsedMethod = top[0].PaymentMethod
		summary.HighestAmountMethod = top[0].PaymentMethod
	}

	typeLabel := "All"
	if txType != "" {
		typeLabel = string(txType)
	}
	return MethodAnalysis{
		Summary:         summary,
		TopMethods:      top,
		ChartData:       chart,
		Period:          period,
		TransactionType: typeLabel,
	}
}

// MethodTrendPoint is one (period, paymentMethod) cell of the payment
// method trend series.
type MethodTrendPoint struct {
	Period           string  `json:"period"`
	PeriodNum        int     `json:"periodNum"`
	Year             int     `json:"year"`
	PaymentMethod    string  `json:"paymentMethod"`
	TotalAmount      float64 `json:"totalAmount"`
	TransactionCount int     `json:"transactionCount"`
	IncomeAmount     float64 `json:"incomeAmount"`
	ExpenseAmount    float64 `json:"expenseAmount"`
}

// MethodTrends is the payment method trends payload.
type MethodTrends struct {
	GroupBy       GroupBy            `json:"groupBy"`
	PaymentMethod string             `json:"paymentMethod"`
	ChartData     []MethodTrendPoint `json:"chartData"`
	TotalPeriods  int                `json:"totalPeriods"`
	Period        string             `json:"period"`
}

// PaymentMethodTrends aggregates each payment method per month or ISO
// week, ordered by (year, periodNum, paymentMethod). TotalPeriods
// counts distinct periods, not cells.
func PaymentMethodTrends(txs []Transaction, groupBy GroupBy, method, period string) MethodTrends {
	matched := FilterTransactions(txs, TxFilter{PaymentMethod: method})

	type cellKey struct {
		periodNum, year int
		method          string
	}
	type cell struct {
		total, income, expense decimal.Decimal
		count                  int
	}
	cells := make(map[cellKey]*cell)
	for _, tx := range matched {
		p, y := periodOf(tx, groupBy)
		k := cellKey{p, y, tx.PaymentMethod}
		c, ok := cells[k]
		if !ok {
			c = &cell{}
			cells[k] = c
		}
		c.total = c.total.Add(tx.Amount)
		c.count++
		if tx.Type == Income {
			c.income = c.income.Add(tx.Amount)
		} else {
			c.expense = c.expense.Add(tx.Amount)
		}
	}

	points := make([]MethodTrendPoint, 0, len(cells))
	periods := make(map[[2]int]struct{})
	for k, c := range cells {
		periods[[2]int{k.year, k.periodNum}] = struct{}{}
		points = append(points, MethodTrendPoint{
			Period:           periodLabel(k.periodNum, k.year, groupBy),
			PeriodNum:        k.periodNum,
			Year:             k.year,
			PaymentMethod:    k.method,
			TotalAmount:      round2(c.total),
			TransactionCount: c.count,
			IncomeAmount:     round2(c.income),
			ExpenseAmount:    round2(c.expense),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		if points[i].PeriodNum != points[j].PeriodNum {
			return points[i].PeriodNum < points[j].PeriodNum
		}
		return points[i].PaymentMethod < points[j].PaymentMethod
	})

	methodLabel := "All"
	if method != "" {
		methodLabel = method
	}
	return MethodTrends{
		GroupBy:       groupBy,
		PaymentMethod: methodLabel,
		ChartData:     points,
		TotalPeriods:  len(periods),
		Period:        period,
	}
}
