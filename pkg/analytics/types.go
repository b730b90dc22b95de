// Package analytics contains the pure aggregation engine behind the
// dashboard: month-key normalization, budget de-duplication, period
// grouping, financial ratios, the composite health score and the budget
// variance analysis. Everything here operates on records already
// fetched by the caller; nothing touches the database.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is either "income" or "expense".
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Transaction is the engine's view of a stored transaction.
type Transaction struct {
	Date          time.Time
	Type          TransactionType
	Amount        decimal.Decimal
	Category      string
	PaymentMethod string
	Status        string
	DueDate       *time.Time
}

// Budget is the engine's view of a stored budget line. Month may be a
// canonical "YYYY-MM" key or a free-form month name.
type Budget struct {
	Month    string
	Category string
	Amount   decimal.Decimal
}

// BalanceSheet is the engine's view of a stored balance snapshot.
type BalanceSheet struct {
	Date               time.Time
	CurrentAssets      decimal.Decimal
	CurrentLiabilities decimal.Decimal
	TotalLiabilities   decimal.Decimal
	TotalEquity        decimal.Decimal
}

// round2 rounds half-up at the cent level for display values.
// Internal computation keeps full precision.
func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// round2p is round2 for nullable ratios.
func round2p(d decimal.Decimal) *float64 {
	f := round2(d)
	return &f
}

// pct returns part/total*100 or zero when total is not positive.
func pct(part, total decimal.Decimal) decimal.Decimal {
	if total.IsPositive() {
		return part.Div(total).Mul(decimal.NewFromInt(100))
	}
	return decimal.Zero
}
