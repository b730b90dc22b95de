package analytics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// GroupBy selects the aggregation period.
type GroupBy string

const (
	Monthly GroupBy = "monthly"
	Weekly  GroupBy = "weekly"
)

// ParseGroupBy maps a query value onto a GroupBy, defaulting to monthly.
func ParseGroupBy(s string) GroupBy {
	if s == string(Weekly) {
		return Weekly
	}
	return Monthly
}

// TxFilter narrows a transaction set before aggregation. Zero fields
// are ignored.
type TxFilter struct {
	Range         DateRange
	Category      string
	Type          TransactionType
	Status        string
	PaymentMethod string
}

// FilterTransactions applies f and returns the matching subset.
func FilterTransactions(txs []Transaction, f TxFilter) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if !f.Range.Contains(tx.Date) {
			continue
		}
		if f.Category != "" && tx.Category != f.Category {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.Status != "" && tx.Status != f.Status {
			continue
		}
		if f.PaymentMethod != "" && tx.PaymentMethod != f.PaymentMethod {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// periodOf maps a transaction date onto its (periodNum, year) group key.
// Weekly grouping uses ISO-8601 week numbering with the ISO year, so
// week 1 of a new year sorts after week 52/53 of the old one.
func periodOf(tx Transaction, groupBy GroupBy) (periodNum, year int) {
	if groupBy == Weekly {
		y, w := tx.Date.ISOWeek()
		return w, y
	}
	return int(tx.Date.Month()), tx.Date.Year()
}

// periodLabel renders the frontend's period string: "6-2025" for months,
// "Week 23-2025" for weeks.
func periodLabel(periodNum, year int, groupBy GroupBy) string {
	if groupBy == Weekly {
		return fmt.Sprintf("Week %d-%d", periodNum, year)
	}
	return fmt.Sprintf("%d-%d", periodNum, year)
}

// PeriodStat is one ordered point of an aggregated time series.
type PeriodStat struct {
	Period    string  `json:"period"`
	PeriodNum int     `json:"periodNum"`
	Year      int     `json:"year"`
	Total     float64 `json:"total"`
	Count     int     `json:"count"`
	Average   float64 `json:"average"`
}

type periodAcc struct {
	total decimal.Decimal
	count int
}

// AggregateByPeriod groups transactions by calendar month or ISO week
// and sums, counts and averages their amounts. The result is ordered
// ascending by (year, periodNum) and recomputed from scratch on every
// call; no state survives between invocations.
func AggregateByPeriod(txs []Transaction, groupBy GroupBy) []PeriodStat {
	type key struct{ periodNum, year int }
	acc := make(map[key]*periodAcc)
	for _, tx := range txs {
		p, y := periodOf(tx, groupBy)
		k := key{p, y}
		a, ok := acc[k]
		if !ok {
			a = &periodAcc{}
			acc[k] = a
		}
		a.total = a.total.Add(tx.Amount)
		a.count++
	}
	stats := make([]PeriodStat, 0, len(acc))
	for k, a := range acc {
		avg := decimal.Zero
		if a.count > 0 {
			avg = a.total.Div(decimal.NewFromInt(int64(a.count)))
		}
		stats = append(stats, PeriodStat{
			Period:    periodLabel(k.periodNum, k.year, groupBy),
			PeriodNum: k.periodNum,
			Year:      k.year,
			Total:     round2(a.total),
			Count:     a.count,
			Average:   round2(avg),
		})
	}
	sortByPeriod(stats, func(s PeriodStat) (int, int) { return s.Year, s.PeriodNum })
	return stats
}

// sortByPeriod orders any period-keyed slice ascending by (year, periodNum).
func sortByPeriod[T any](items []T, key func(T) (year, periodNum int)) {
	sort.Slice(items, func(i, j int) bool {
		yi, pi := key(items[i])
		yj, pj := key(items[j])
		if yi != yj {
			return yi < yj
		}
		return pi < pj
	})
}

// sumAmounts totals the amounts of a transaction slice.
func sumAmounts(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return total
}
