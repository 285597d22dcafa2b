// Package financials derives standalone quarterly figures, period-over-
// period changes and financial ratios from raw fiscal filings.
package financials

import (
	"fmt"
	"sort"

	"github.com/jmkang/stockscope/internal/domain"
)

// PeriodKey identifies one standalone quarter.
type PeriodKey struct {
	Year    int `json:"year"`
	Quarter int `json:"quarter"`
}

// Label renders the period as "2024Q3".
func (p PeriodKey) Label() string {
	return fmt.Sprintf("%dQ%d", p.Year, p.Quarter)
}

// QuarterSeries holds standalone quarterly values aligned by index with
// Periods.
type QuarterSeries struct {
	Periods         []PeriodKey
	Revenue         []float64
	OperatingProfit []float64
	NetIncome       []float64
}

// Reconstruct converts cumulative fiscal filings into standalone
// quarterly values.
//
// Filings report cumulative year-to-date figures for everything after the
// first quarter, so "Q3 revenue" as filed is really nine months of
// revenue. Each quarter past Q1 is recovered by subtracting the previous
// cumulative filing of the same fiscal year.
//
// A derived quarter is included only when its prerequisite filing exists
// and the derived revenue is positive; operating profit and net income
// ride along with revenue's decision. The positive gate defends against
// placeholder zeros in upstream data, at the cost of dropping quarters
// whose revenue is genuinely non-positive.
func Reconstruct(statements []domain.FiscalStatement) QuarterSeries {
	sorted := make([]domain.FiscalStatement, len(statements))
	copy(sorted, statements)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year < sorted[j].Year
		}
		return sorted[i].Quarter < sorted[j].Quarter
	})

	byYear := make(map[int]*[5]*domain.FiscalStatement)
	years := make([]int, 0)
	for i := range sorted {
		st := &sorted[i]
		if st.Quarter < 1 || st.Quarter > 4 {
			continue
		}
		group, ok := byYear[st.Year]
		if !ok {
			group = &[5]*domain.FiscalStatement{}
			byYear[st.Year] = group
			years = append(years, st.Year)
		}
		group[st.Quarter] = st
	}
	sort.Ints(years)

	var series QuarterSeries
	for _, year := range years {
		group := byYear[year]
		for quarter := 1; quarter <= 4; quarter++ {
			cur := group[quarter]
			if cur == nil {
				continue
			}

			var revenue, operating, net float64
			if quarter == 1 {
				revenue = float64(cur.Revenue)
				operating = float64(cur.OperatingProfit)
				net = float64(cur.NetIncome)
			} else {
				prev := group[quarter-1]
				if prev == nil {
					// Prerequisite cumulative filing is missing; the
					// quarter cannot be derived.
					continue
				}
				revenue = float64(cur.Revenue - prev.Revenue)
				operating = float64(cur.OperatingProfit - prev.OperatingProfit)
				net = float64(cur.NetIncome - prev.NetIncome)
			}

			// The gate is evaluated on revenue alone; the other metrics
			// are accepted or rejected with it.
			if revenue <= 0 {
				continue
			}

			series.Periods = append(series.Periods, PeriodKey{Year: year, Quarter: quarter})
			series.Revenue = append(series.Revenue, revenue)
			series.OperatingProfit = append(series.OperatingProfit, operating)
			series.NetIncome = append(series.NetIncome, net)
		}
	}

	return series
}
