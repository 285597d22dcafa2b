package financials

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/jmkang/stockscope/internal/cache"
	"github.com/jmkang/stockscope/internal/domain"
)

// lookbackYears is how many fiscal years of filings feed a report.
const lookbackYears = 3

// StatementSource fetches a year's worth of fiscal filings.
type StatementSource interface {
	GetFiscalStatements(ctx context.Context, code string, year int) ([]domain.FiscalStatement, error)
}

// QuoteProvider supplies scraped price/fundamentals; it degrades to the
// zero-value sentinel instead of failing.
type QuoteProvider interface {
	GetQuote(ctx context.Context, ticker string) domain.Quote
}

// Service builds financial reports, cached per company per day.
type Service struct {
	cache      *cache.Manager
	statements StatementSource
	quotes     QuoteProvider
	log        zerolog.Logger
	now        func() time.Time
}

// NewService creates a new financials service
func NewService(c *cache.Manager, statements StatementSource, quotes QuoteProvider, log zerolog.Logger) *Service {
	return &Service{
		cache:      c,
		statements: statements,
		quotes:     quotes,
		log:        log.With().Str("service", "financials").Logger(),
		now:        time.Now,
	}
}

// Report returns the financial report for a company. The cache key
// embeds the current day, so a fresh report appears at each day boundary
// without explicit invalidation. The bool reports staleness.
func (s *Service) Report(ctx context.Context, rec domain.CompanyRecord) (*Report, bool, error) {
	key := cache.KeyFinancials(rec.Code, s.now())

	res := cache.GetWithSWR(ctx, s.cache, key, cache.FinancialsOptions,
		func(ctx context.Context) (*Report, error) {
			return s.build(ctx, rec)
		})
	if !res.Found {
		return nil, false, res.Err
	}
	if res.Err != nil {
		s.log.Warn().Err(res.Err).Str("code", rec.Code).Msg("Serving expired financial report, refresh failed")
	}
	return res.Data, res.IsStale, nil
}

func (s *Service) build(ctx context.Context, rec domain.CompanyRecord) (*Report, error) {
	currentYear := s.now().Year()

	var all []domain.FiscalStatement
	for i := 0; i < lookbackYears; i++ {
		statements, err := s.statements.GetFiscalStatements(ctx, rec.Code, currentYear-i)
		if err != nil {
			return nil, err
		}
		all = append(all, statements...)
	}

	series := Reconstruct(all)
	quote := s.quotes.GetQuote(ctx, rec.Ticker)

	report := &Report{
		Code:            rec.Code,
		Name:            rec.Name,
		Ticker:          rec.Ticker,
		Periods:         make([]string, len(series.Periods)),
		Revenue:         Changes(series.Revenue),
		OperatingProfit: Changes(series.OperatingProfit),
		NetIncome:       Changes(series.NetIncome),
		Quote:           quote,
	}
	for i, p := range series.Periods {
		report.Periods[i] = p.Label()
	}

	report.Ratios = deriveRatios(all, series, quote)
	report.Growth = growthSummary(report.Revenue)

	return report, nil
}

// deriveRatios wires the pure ratio formulas to whatever inputs the
// filings and the quote actually provide.
func deriveRatios(statements []domain.FiscalStatement, series QuarterSeries, quote domain.Quote) Ratios {
	var ratios Ratios

	// Latest filing that carries a balance sheet, and the latest annual
	// filing for trailing income figures.
	var balance, annual *domain.FiscalStatement
	for i := range statements {
		st := &statements[i]
		if st.TotalAssets != 0 && (balance == nil || later(st, balance)) {
			balance = st
		}
		if st.Quarter == 4 && (annual == nil || st.Year > annual.Year) {
			annual = st
		}
	}

	if annual != nil {
		netIncome := float64(annual.NetIncome)
		if quote.SharesOutstanding > 0 {
			ratios.EPS = EPS(netIncome, quote.SharesOutstanding)
		}
		if balance != nil {
			ratios.ROA = ROA(netIncome, float64(balance.TotalAssets))
			ratios.ROE = ROE(netIncome, float64(balance.TotalEquity))
		}
	}

	if balance != nil {
		ratios.PBR = PBR(quote.Price, BookValuePerShare(float64(balance.TotalEquity), quote.SharesOutstanding))
		ratios.DebtRatio = DebtRatio(float64(balance.TotalLiabilities), float64(balance.TotalEquity))
		ratios.CurrentRatio = CurrentRatio(float64(balance.CurrentAssets), float64(balance.CurrentLiabilities))

		if annual != nil && quote.Price > 0 && quote.SharesOutstanding > 0 && balance.CashAndEquivalents != 0 {
			marketCap := quote.Price * quote.SharesOutstanding
			debt := float64(balance.TotalLiabilities)
			cash := float64(balance.CashAndEquivalents)
			ev := EnterpriseValue(&marketCap, &debt, &cash)
			// EBITDA proxied by annual operating profit; the filings
			// don't break out depreciation.
			ratios.EVToEBITDA = EVToEBITDA(ev, float64(annual.OperatingProfit))
		}
	}

	if n := len(series.Periods); n > 0 {
		ratios.OperatingMargin = OperatingMargin(series.OperatingProfit[n-1], series.Revenue[n-1])
	}

	return ratios
}

func later(a, b *domain.FiscalStatement) bool {
	if a.Year != b.Year {
		return a.Year > b.Year
	}
	return a.Quarter > b.Quarter
}

// growthSummary condenses the QoQ revenue changes; nil when fewer than
// two defined changes exist.
func growthSummary(revenue []MetricPoint) *GrowthSummary {
	growth := make([]float64, 0, len(revenue))
	for _, p := range revenue {
		if p.ChangePercent != nil {
			growth = append(growth, *p.ChangePercent)
		}
	}
	if len(growth) < 2 {
		return nil
	}

	return &GrowthSummary{
		MeanGrowthPercent:   round2(stat.Mean(growth, nil)),
		StdDevGrowthPercent: round2(stat.StdDev(growth, nil)),
		Quarters:            len(growth),
	}
}
