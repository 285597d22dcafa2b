package financials

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmkang/stockscope/internal/cache"
	"github.com/jmkang/stockscope/internal/domain"
)

type mockStatements struct {
	byYear map[int][]domain.FiscalStatement
	err    error
	calls  atomic.Int64
}

func (m *mockStatements) GetFiscalStatements(_ context.Context, _ string, year int) ([]domain.FiscalStatement, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.byYear[year], nil
}

type mockQuotes struct {
	quote domain.Quote
}

func (m *mockQuotes) GetQuote(_ context.Context, _ string) domain.Quote {
	return m.quote
}

func testRecord() domain.CompanyRecord {
	return domain.CompanyRecord{Code: "00126380", Name: "테스트전자", Ticker: "005930", Market: "KOSPI"}
}

func newTestService(statements StatementSource, quotes QuoteProvider) *Service {
	svc := NewService(cache.NewManager(nil, zerolog.Nop()), statements, quotes, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2024, 11, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestReportBuildsSeriesAndRatios(t *testing.T) {
	statements := &mockStatements{byYear: map[int][]domain.FiscalStatement{
		2023: {
			{Year: 2023, Quarter: 3, Revenue: 300, OperatingProfit: 30, NetIncome: 1500},
			{Year: 2023, Quarter: 4, Revenue: 400, OperatingProfit: 40, NetIncome: 2000,
				TotalAssets: 40000, TotalLiabilities: 10000, TotalEquity: 30000,
				CurrentAssets: 6000, CurrentLiabilities: 3000, CashAndEquivalents: 500},
		},
		2024: {
			{Year: 2024, Quarter: 1, Revenue: 100, OperatingProfit: 10, NetIncome: 8},
			{Year: 2024, Quarter: 2, Revenue: 250, OperatingProfit: 30, NetIncome: 20},
		},
	}}
	quotes := &mockQuotes{quote: domain.Quote{Price: 600, SharesOutstanding: 100}}

	svc := newTestService(statements, quotes)
	report, stale, err := svc.Report(context.Background(), testRecord())

	require.NoError(t, err)
	assert.False(t, stale)
	require.NotNil(t, report)

	assert.Equal(t, "00126380", report.Code)
	assert.Equal(t, "005930", report.Ticker)
	assert.Equal(t, []string{"2023Q4", "2024Q1", "2024Q2"}, report.Periods)
	require.Len(t, report.Revenue, 3)
	assert.Equal(t, 150.0, report.Revenue[2].Value)

	// Trailing annual net income 2000 over 100 shares.
	require.NotNil(t, report.Ratios.EPS)
	assert.Equal(t, 20.0, *report.Ratios.EPS)
	// Price 600 over book value 30000/100.
	require.NotNil(t, report.Ratios.PBR)
	assert.Equal(t, 2.0, *report.Ratios.PBR)
	require.NotNil(t, report.Ratios.ROE)
	assert.InDelta(t, 6.67, *report.Ratios.ROE, 0.01)
	require.NotNil(t, report.Ratios.DebtRatio)
	assert.InDelta(t, 33.33, *report.Ratios.DebtRatio, 0.01)
	require.NotNil(t, report.Ratios.CurrentRatio)
	assert.Equal(t, 200.0, *report.Ratios.CurrentRatio)
	// EV = 600*100 + 10000 - 500 = 69500, over annual operating profit 40.
	require.NotNil(t, report.Ratios.EVToEBITDA)
	assert.InDelta(t, 1737.5, *report.Ratios.EVToEBITDA, 0.01)
}

func TestReportIsCachedPerDay(t *testing.T) {
	statements := &mockStatements{byYear: map[int][]domain.FiscalStatement{
		2024: {{Year: 2024, Quarter: 1, Revenue: 100, OperatingProfit: 10, NetIncome: 8}},
	}}
	svc := newTestService(statements, &mockQuotes{})

	_, _, err := svc.Report(context.Background(), testRecord())
	require.NoError(t, err)
	callsAfterFirst := statements.calls.Load()

	_, _, err = svc.Report(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, statements.calls.Load(), "second report within the day must come from cache")
}

func TestReportPropagatesStatementErrors(t *testing.T) {
	upstream := errors.New("registry unavailable")
	svc := newTestService(&mockStatements{err: upstream}, &mockQuotes{})

	report, _, err := svc.Report(context.Background(), testRecord())
	require.ErrorIs(t, err, upstream)
	assert.Nil(t, report)
}

func TestReportToleratesZeroQuote(t *testing.T) {
	statements := &mockStatements{byYear: map[int][]domain.FiscalStatement{
		2024: {
			{Year: 2024, Quarter: 1, Revenue: 100, OperatingProfit: 10, NetIncome: 8},
			{Year: 2024, Quarter: 2, Revenue: 250, OperatingProfit: 30, NetIncome: 20},
		},
	}}
	svc := newTestService(statements, &mockQuotes{})

	report, _, err := svc.Report(context.Background(), testRecord())
	require.NoError(t, err)

	assert.True(t, report.Quote.IsZero())
	assert.Nil(t, report.Ratios.EPS)
	assert.Nil(t, report.Ratios.PBR)
	require.NotNil(t, report.Ratios.OperatingMargin, "margin needs no quote data")
	assert.Equal(t, 20.0, *report.Ratios.OperatingMargin)
}

func TestReportGrowthSummary(t *testing.T) {
	statements := &mockStatements{byYear: map[int][]domain.FiscalStatement{
		2024: {
			{Year: 2024, Quarter: 1, Revenue: 100, OperatingProfit: 10, NetIncome: 8},
			{Year: 2024, Quarter: 2, Revenue: 250, OperatingProfit: 30, NetIncome: 20},
			{Year: 2024, Quarter: 3, Revenue: 420, OperatingProfit: 55, NetIncome: 40},
		},
	}}
	svc := newTestService(statements, &mockQuotes{})

	report, _, err := svc.Report(context.Background(), testRecord())
	require.NoError(t, err)

	// QoQ changes: 100 -> 150 (+50%), 150 -> 170 (+13.33%).
	require.NotNil(t, report.Growth)
	assert.Equal(t, 2, report.Growth.Quarters)
	assert.InDelta(t, 31.67, report.Growth.MeanGrowthPercent, 0.01)
	assert.Greater(t, report.Growth.StdDevGrowthPercent, 0.0)
}

func TestReportGrowthNilWhenTooFewQuarters(t *testing.T) {
	statements := &mockStatements{byYear: map[int][]domain.FiscalStatement{
		2024: {{Year: 2024, Quarter: 1, Revenue: 100, OperatingProfit: 10, NetIncome: 8}},
	}}
	svc := newTestService(statements, &mockQuotes{})

	report, _, err := svc.Report(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Nil(t, report.Growth)
}
