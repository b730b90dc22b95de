package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the dashboard KPI block.
type Summary struct {
	TotalIncome      float64 `json:"totalIncome"`
	TotalExpense     float64 `json:"totalExpense"`
	NetProfit        float64 `json:"netProfit"`
	UpcomingPayments int     `json:"upcomingPayments"`
	TopCategory      *string `json:"topCategory"`
}

// Summarize computes the headline figures for the dashboard. Income,
// expense and the top expense category respect the date range; the
// upcoming payments count always scans the full transaction set, since
// a due date outside the viewed range is still a payment owed.
func Summarize(txs []Transaction, r DateRange, now time.Time) Summary {
	inRange := FilterTransactions(txs, TxFilter{Range: r})
	totalIncome := sumAmounts(FilterTransactions(inRange, TxFilter{Type: Income}))
	totalExpense := sumAmounts(FilterTransactions(inRange, TxFilter{Type: Expense}))

	upcoming := 0
	for _, tx := range txs {
		if tx.Status == "Pending" && tx.DueDate != nil && !tx.DueDate.Before(now) {
			upcoming++
		}
	}

	s := Summary{
		TotalIncome:      round2(totalIncome),
		TotalExpense:     round2(totalExpense),
		NetProfit:        round2(totalIncome.Sub(totalExpense)),
		UpcomingPayments: upcoming,
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, tx := range inRange {
		if tx.Type == Expense {
			byCategory[tx.Category] = byCategory[tx.Category].Add(tx.Amount)
		}
	}
	var topCategory string
	var topTotal decimal.Decimal
	for cat, total := range byCategory {
		if topCategory == "" || total.GreaterThan(topTotal) ||
			(total.Equal(topTotal) && cat < topCategory) {
			topCategory, topTotal = cat, total
		}
	}
	if topCategory != "" {
		s.TopCategory = &topCategory
	}
	return s
}
