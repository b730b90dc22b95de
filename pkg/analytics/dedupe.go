package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BudgetLine is a deduplicated budget entry keyed by canonical month.
type BudgetLine struct {
	Month    string          `json:"month"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"budgetAmount"`
}

// DedupeBudgets collapses budget entries that describe the same
// (month, category) under different label spellings, e.g. "2025-06" and
// "June". Each group keeps the maximum amount seen, not the sum, so a
// logical budget line stored twice is never double-counted. Two genuine
// allocations for the same category and month also collapse to the
// larger one; that is the documented policy, inherited from the stored
// data's ambiguity. Output is sorted by (month, category).
func DedupeBudgets(budgets []Budget, referenceYear int) ([]BudgetLine, error) {
	type key struct{ month, category string }
	max := make(map[key]decimal.Decimal, len(budgets))
	for _, b := range budgets {
		month, err := CanonicalMonth(b.Month, referenceYear)
		if err != nil {
			return nil, err
		}
		k := key{month, b.Category}
		if prev, ok := max[k]; !ok || b.Amount.GreaterThan(prev) {
			max[k] = b.Amount
		}
	}
	lines := make([]BudgetLine, 0, len(max))
	for k, amount := range max {
		lines = append(lines, BudgetLine{Month: k.month, Category: k.category, Amount: amount})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Month != lines[j].Month {
			return lines[i].Month < lines[j].Month
		}
		return lines[i].Category < lines[j].Category
	})
	return lines, nil
}

// FilterBudgetsByRange keeps budgets whose month falls inside the range.
// A budget without a month label cannot be ruled out of any window, so
// it is kept.
func FilterBudgetsByRange(budgets []Budget, r DateRange, referenceYear int) ([]Budget, error) {
	return filterBudgets(budgets, r, referenceYear, true)
}

// FilterPlacedBudgetsByRange is the strict variant: budgets that cannot
// be placed on the timeline are excluded whenever a bound is set. The
// health score only counts allocations it can date.
func FilterPlacedBudgetsByRange(budgets []Budget, r DateRange, referenceYear int) ([]Budget, error) {
	return filterBudgets(budgets, r, referenceYear, false)
}

func filterBudgets(budgets []Budget, r DateRange, referenceYear int, keepUnplaced bool) ([]Budget, error) {
	if r.IsZero() {
		return budgets, nil
	}
	kept := make([]Budget, 0, len(budgets))
	for _, b := range budgets {
		at, ok, err := MonthKeyDate(b.Month, referenceYear)
		if err != nil {
			return nil, err
		}
		if !ok {
			if keepUnplaced {
				kept = append(kept, b)
			}
			continue
		}
		if r.Contains(at) {
			kept = append(kept, b)
		}
	}
	return kept, nil
}
