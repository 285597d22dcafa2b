// Package domain holds the shared models passed between clients, services
// and handlers.
package domain

// CompanyRecord is one row of the bulk corporate registry snapshot.
type CompanyRecord struct {
	Code   string `json:"code" msgpack:"code"`     // 8-digit DART corp code, zero-padded
	Name   string `json:"name" msgpack:"name"`     // display name
	Ticker string `json:"ticker" msgpack:"ticker"` // 6-char KRX ticker, empty for unlisted filers
	Market string `json:"market" msgpack:"market"` // KOSPI / KOSDAQ / KONEX
}

// CompanyInfo is the detailed company profile from the disclosure registry.
type CompanyInfo struct {
	Code     string `json:"code" msgpack:"code"`
	Name     string `json:"name" msgpack:"name"`
	NameEng  string `json:"name_eng,omitempty" msgpack:"name_eng"`
	Ticker   string `json:"ticker" msgpack:"ticker"`
	Market   string `json:"market" msgpack:"market"`
	CEO      string `json:"ceo,omitempty" msgpack:"ceo"`
	Address  string `json:"address,omitempty" msgpack:"address"`
	Homepage string `json:"homepage,omitempty" msgpack:"homepage"`
	Industry string `json:"industry_code,omitempty" msgpack:"industry_code"`
	Founded  string `json:"founded,omitempty" msgpack:"founded"`
}

// Disclosure is a single filing in a company's disclosure feed.
type Disclosure struct {
	ReceiptNo string `json:"receipt_no" msgpack:"receipt_no"`
	Title     string `json:"title" msgpack:"title"`
	Filer     string `json:"filer" msgpack:"filer"`
	FiledAt   string `json:"filed_at" msgpack:"filed_at"` // YYYYMMDD
}

// FiscalStatement carries the figures of one fiscal-period filing.
//
// Per the registry's reporting convention, income-statement amounts are
// cumulative year-to-date for quarters 2-4 and standalone for quarter 1.
// Balance-sheet amounts are point-in-time and only populated when the
// filing carries them.
type FiscalStatement struct {
	Year    int `json:"year" msgpack:"year"`
	Quarter int `json:"quarter" msgpack:"quarter"` // 1..4

	Revenue         int64 `json:"revenue" msgpack:"revenue"`
	OperatingProfit int64 `json:"operating_profit" msgpack:"operating_profit"`
	NetIncome       int64 `json:"net_income" msgpack:"net_income"`

	TotalAssets        int64 `json:"total_assets,omitempty" msgpack:"total_assets"`
	TotalLiabilities   int64 `json:"total_liabilities,omitempty" msgpack:"total_liabilities"`
	TotalEquity        int64 `json:"total_equity,omitempty" msgpack:"total_equity"`
	CurrentAssets      int64 `json:"current_assets,omitempty" msgpack:"current_assets"`
	CurrentLiabilities int64 `json:"current_liabilities,omitempty" msgpack:"current_liabilities"`
	CashAndEquivalents int64 `json:"cash_and_equivalents,omitempty" msgpack:"cash_and_equivalents"`
}

// Quote holds scraped price and fundamentals for a ticker.
//
// The zero value is the degradation sentinel: the scraper returns it
// instead of an error, so downstream ratio code never null-checks
// individual fields.
type Quote struct {
	Price             float64 `json:"price" msgpack:"price"`
	SharesOutstanding float64 `json:"shares_outstanding" msgpack:"shares_outstanding"`
	DividendYield     float64 `json:"dividend_yield" msgpack:"dividend_yield"`
	PER               float64 `json:"per" msgpack:"per"`
	PBR               float64 `json:"pbr" msgpack:"pbr"`
	ROE               float64 `json:"roe" msgpack:"roe"`
	EPS               float64 `json:"eps" msgpack:"eps"`
	High52W           float64 `json:"high_52w" msgpack:"high_52w"`
	Low52W            float64 `json:"low_52w" msgpack:"low_52w"`
	OperatingMargin   float64 `json:"operating_margin" msgpack:"operating_margin"`
	DebtRatio         float64 `json:"debt_ratio" msgpack:"debt_ratio"`
	CurrentRatio      float64 `json:"current_ratio" msgpack:"current_ratio"`
}

// IsZero reports whether the quote is the all-zero failure sentinel.
func (q Quote) IsZero() bool {
	return q == Quote{}
}

// Article is a single news item about a company.
type Article struct {
	Title       string `json:"title" msgpack:"title"`
	URL         string `json:"url" msgpack:"url"`
	Press       string `json:"press" msgpack:"press"`
	PublishedAt string `json:"published_at" msgpack:"published_at"`
}
