package financials

import "github.com/jmkang/stockscope/internal/domain"

// Ratios is the derived ratio block of a report. Nil means the ratio is
// undefined for this company (missing or zero denominator).
type Ratios struct {
	EPS             *float64 `json:"eps" msgpack:"eps"`
	PBR             *float64 `json:"pbr" msgpack:"pbr"`
	ROA             *float64 `json:"roa" msgpack:"roa"`
	ROE             *float64 `json:"roe" msgpack:"roe"`
	EVToEBITDA      *float64 `json:"ev_to_ebitda" msgpack:"ev_to_ebitda"`
	OperatingMargin *float64 `json:"operating_margin" msgpack:"operating_margin"`
	DebtRatio       *float64 `json:"debt_ratio" msgpack:"debt_ratio"`
	CurrentRatio    *float64 `json:"current_ratio" msgpack:"current_ratio"`
}

// GrowthSummary condenses the QoQ revenue growth series into a stability
// snapshot.
type GrowthSummary struct {
	MeanGrowthPercent   float64 `json:"mean_growth_percent" msgpack:"mean_growth_percent"`
	StdDevGrowthPercent float64 `json:"stddev_growth_percent" msgpack:"stddev_growth_percent"`
	Quarters            int     `json:"quarters" msgpack:"quarters"`
}

// Report is the full financial report served for one company.
type Report struct {
	Code            string         `json:"code" msgpack:"code"`
	Name            string         `json:"name" msgpack:"name"`
	Ticker          string         `json:"ticker" msgpack:"ticker"`
	Periods         []string       `json:"periods" msgpack:"periods"`
	Revenue         []MetricPoint  `json:"revenue" msgpack:"revenue"`
	OperatingProfit []MetricPoint  `json:"operating_profit" msgpack:"operating_profit"`
	NetIncome       []MetricPoint  `json:"net_income" msgpack:"net_income"`
	Ratios          Ratios         `json:"ratios" msgpack:"ratios"`
	Growth          *GrowthSummary `json:"growth,omitempty" msgpack:"growth"`
	Quote           domain.Quote   `json:"quote" msgpack:"quote"`
}
