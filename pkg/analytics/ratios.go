package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RatioSet holds the display-rounded ratios derived from one balance
// sheet snapshot. Ratios whose denominator is zero are nil, never an
// infinity or a panic.
type RatioSet struct {
	CurrentRatio      *float64 `json:"currentRatio"`
	DebtToEquityRatio *float64 `json:"debtEquityRatio"`
	NetWorth          float64  `json:"netWorth"`
	WorkingCapital    float64  `json:"workingCapital"`
}

// CurrentRatio returns currentAssets/currentLiabilities, or false when
// there are no current liabilities.
func CurrentRatio(bs BalanceSheet) (decimal.Decimal, bool) {
	if !bs.CurrentLiabilities.IsPositive() {
		return decimal.Zero, false
	}
	return bs.CurrentAssets.Div(bs.CurrentLiabilities), true
}

// DebtToEquityRatio returns totalLiabilities/totalEquity, or false when
// there is no equity.
func DebtToEquityRatio(bs BalanceSheet) (decimal.Decimal, bool) {
	if !bs.TotalEquity.IsPositive() {
		return decimal.Zero, false
	}
	return bs.TotalLiabilities.Div(bs.TotalEquity), true
}

// NetWorth is currentAssets - totalLiabilities.
func NetWorth(bs BalanceSheet) decimal.Decimal {
	return bs.CurrentAssets.Sub(bs.TotalLiabilities)
}

// WorkingCapital is currentAssets - currentLiabilities.
func WorkingCapital(bs BalanceSheet) decimal.Decimal {
	return bs.CurrentAssets.Sub(bs.CurrentLiabilities)
}

// Ratios computes the full rounded ratio set for one snapshot.
func Ratios(bs BalanceSheet) RatioSet {
	rs := RatioSet{
		NetWorth:       round2(NetWorth(bs)),
		WorkingCapital: round2(WorkingCapital(bs)),
	}
	if cr, ok := CurrentRatio(bs); ok {
		rs.CurrentRatio = round2p(cr)
	}
	if de, ok := DebtToEquityRatio(bs); ok {
		rs.DebtToEquityRatio = round2p(de)
	}
	return rs
}

// ComparisonPoint is one bar of the assets-vs-liabilities chart: the
// last snapshot taken inside the period.
type ComparisonPoint struct {
	Period             string   `json:"period"`
	PeriodNum          int      `json:"periodNum"`
	Year               int      `json:"year"`
	CurrentAssets      float64  `json:"currentAssets"`
	CurrentLiabilities float64  `json:"currentLiabilities"`
	TotalLiabilities   float64  `json:"totalLiabilities"`
	TotalEquity        float64  `json:"totalEquity"`
	NetWorth           float64  `json:"netWorth"`
	CurrentRatio       *float64 `json:"currentRatio"`
	DebtToEquityRatio  *float64 `json:"debtToEquityRatio"`
	RecordCount        int      `json:"recordCount"`
}

// ComparisonSummary echoes the latest period's headline figures. Null
// ratios degrade to zero here, matching the dashboard KPI tiles.
type ComparisonSummary struct {
	LatestPeriod      string  `json:"latestPeriod"`
	TotalAssets       float64 `json:"totalAssets"`
	TotalLiabilities  float64 `json:"totalLiabilities"`
	NetWorth          float64 `json:"netWorth"`
	CurrentRatio      float64 `json:"currentRatio"`
	DebtToEquityRatio float64 `json:"debtToEquityRatio"`
}

// ComparisonResult is the assets-vs-liabilities report payload.
type ComparisonResult struct {
	GroupBy      GroupBy           `json:"groupBy"`
	Summary      ComparisonSummary `json:"summary"`
	ChartData    []ComparisonPoint `json:"chartData"`
	TotalPeriods int               `json:"totalPeriods"`
}

// AssetsVsLiabilities groups balance snapshots by month or ISO week,
// keeps the last snapshot of each period (net worth as of period end)
// and derives the per-period ratios.
func AssetsVsLiabilities(sheets []BalanceSheet, groupBy GroupBy) ComparisonResult {
	ordered := make([]BalanceSheet, len(sheets))
	copy(ordered, sheets)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	type key struct{ periodNum, year int }
	last := make(map[key]BalanceSheet)
	count := make(map[key]int)
	for _, bs := range ordered {
		var k key
		if groupBy == Weekly {
			y, w := bs.Date.ISOWeek()
			k = key{w, y}
		} else {
			k = key{int(bs.Date.Month()), bs.Date.Year()}
		}
		last[k] = bs
		count[k]++
	}

	points := make([]ComparisonPoint, 0, len(last))
	for k, bs := range last {
		p := ComparisonPoint{
			Period:             periodLabel(k.periodNum, k.year, groupBy),
			PeriodNum:          k.periodNum,
			Year:               k.year,
			CurrentAssets:      round2(bs.CurrentAssets),
			CurrentLiabilities: round2(bs.CurrentLiabilities),
			TotalLiabilities:   round2(bs.TotalLiabilities),
			TotalEquity:        round2(bs.TotalEquity),
			NetWorth:           round2(NetWorth(bs)),
			RecordCount:        count[k],
		}
		if cr, ok := CurrentRatio(bs); ok {
			p.CurrentRatio = round2p(cr)
		}
		if de, ok := DebtToEquityRatio(bs); ok {
			p.DebtToEquityRatio = round2p(de)
		}
		points = append(points, p)
	}
	sortByPeriod(points, func(p ComparisonPoint) (int, int) { return p.Year, p.PeriodNum })

	result := ComparisonResult{
		GroupBy:      groupBy,
		ChartData:    points,
		TotalPeriods: len(points),
		Summary:      ComparisonSummary{LatestPeriod: "No data"},
	}
	if len(points) > 0 {
		latest := points[len(points)-1]
		result.Summary = ComparisonSummary{
			LatestPeriod:     latest.Period,
			TotalAssets:      latest.CurrentAssets,
			TotalLiabilities: latest.TotalLiabilities,
			NetWorth:         latest.NetWorth,
		}
		if latest.CurrentRatio != nil {
			result.Summary.CurrentRatio = *latest.CurrentRatio
		}
		if latest.DebtToEquityRatio != nil {
			result.Summary.DebtToEquityRatio = *latest.DebtToEquityRatio
		}
	}
	return result
}
