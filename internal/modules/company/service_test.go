package company

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmkang/stockscope/internal/cache"
	"github.com/jmkang/stockscope/internal/clients/dart"
	"github.com/jmkang/stockscope/internal/domain"
	"github.com/jmkang/stockscope/internal/modules/registry"
)

type mockRegistry struct {
	companies   []domain.CompanyRecord
	listErr     error
	listCalls   atomic.Int64
	info        *domain.CompanyInfo
	infoErr     error
	disclosures []domain.Disclosure
}

func (m *mockRegistry) ListCompanies(_ context.Context) ([]domain.CompanyRecord, error) {
	m.listCalls.Add(1)
	return m.companies, m.listErr
}

func (m *mockRegistry) GetCompanyInfo(_ context.Context, _ string) (*domain.CompanyInfo, error) {
	return m.info, m.infoErr
}

func (m *mockRegistry) GetDisclosures(_ context.Context, _ string, _ int) ([]domain.Disclosure, error) {
	return m.disclosures, nil
}

type mockNews struct {
	articles []domain.Article
	queries  []string
}

func (m *mockNews) GetArticles(_ context.Context, query string, _ int) []domain.Article {
	m.queries = append(m.queries, query)
	return m.articles
}

func sampleCompanies() []domain.CompanyRecord {
	return []domain.CompanyRecord{
		{Code: "00126380", Name: "삼성전자", Ticker: "005930", Market: "KOSPI"},
		{Code: "00164742", Name: "LG전자", Ticker: "066570", Market: "KOSPI"},
	}
}

func newTestService(reg *mockRegistry, news *mockNews) *Service {
	return NewService(
		cache.NewManager(nil, zerolog.Nop()),
		reg, news,
		registry.NewIndex(zerolog.Nop()),
		zerolog.Nop(),
	)
}

func TestSearchInitializesIndexOnce(t *testing.T) {
	reg := &mockRegistry{companies: sampleCompanies()}
	svc := newTestService(reg, &mockNews{})

	results, err := svc.Search(context.Background(), "삼성전자", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "00126380", results[0].Code)

	_, err = svc.Search(context.Background(), "lg전자", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reg.listCalls.Load(), "snapshot must be downloaded once")
}

func TestSearchPropagatesSnapshotFailure(t *testing.T) {
	reg := &mockRegistry{listErr: errors.New("registry down")}
	svc := newTestService(reg, &mockNews{})

	_, err := svc.Search(context.Background(), "삼성", 10)
	assert.Error(t, err)
}

func TestResolveUnknownCode(t *testing.T) {
	svc := newTestService(&mockRegistry{companies: sampleCompanies()}, &mockNews{})

	_, err := svc.Resolve(context.Background(), "99999999")
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

func TestInfoMapsNoDataToNotFound(t *testing.T) {
	reg := &mockRegistry{companies: sampleCompanies(), infoErr: dart.ErrNoData}
	svc := newTestService(reg, &mockNews{})

	_, err := svc.Info(context.Background(), "00126380")
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

func TestInfoCached(t *testing.T) {
	reg := &mockRegistry{
		companies: sampleCompanies(),
		info:      &domain.CompanyInfo{Code: "00126380", Name: "삼성전자", CEO: "한종희"},
	}
	svc := newTestService(reg, &mockNews{})

	info, err := svc.Info(context.Background(), "00126380")
	require.NoError(t, err)
	assert.Equal(t, "한종희", info.CEO)

	// Break the upstream; the cached profile must keep serving.
	reg.infoErr = errors.New("registry down")
	info, err = svc.Info(context.Background(), "00126380")
	require.NoError(t, err)
	assert.Equal(t, "한종희", info.CEO)
}

func TestDisclosuresTruncatedToLimit(t *testing.T) {
	feed := make([]domain.Disclosure, 20)
	for i := range feed {
		feed[i] = domain.Disclosure{ReceiptNo: string(rune('a' + i)), Title: "filing"}
	}
	reg := &mockRegistry{companies: sampleCompanies(), disclosures: feed}
	svc := newTestService(reg, &mockNews{})

	got, err := svc.Disclosures(context.Background(), "00126380", 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = svc.Disclosures(context.Background(), "00126380", 0)
	require.NoError(t, err)
	assert.Len(t, got, defaultDisclosuresLimit)
}

func TestNewsQueriesByCompanyName(t *testing.T) {
	news := &mockNews{articles: []domain.Article{{Title: "실적 발표"}}}
	svc := newTestService(&mockRegistry{companies: sampleCompanies()}, news)

	articles, err := svc.News(context.Background(), "00126380", 5)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	require.NotEmpty(t, news.queries)
	assert.Equal(t, "삼성전자", news.queries[0])
}

func TestNewsUnknownCompany(t *testing.T) {
	svc := newTestService(&mockRegistry{companies: sampleCompanies()}, &mockNews{})

	_, err := svc.News(context.Background(), "99999999", 5)
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

func TestRefreshRegistryRebuildsIndex(t *testing.T) {
	reg := &mockRegistry{companies: sampleCompanies()}
	svc := newTestService(reg, &mockNews{})

	require.NoError(t, svc.RefreshRegistry(context.Background()))

	reg.companies = append(sampleCompanies(), domain.CompanyRecord{
		Code: "00401731", Name: "카카오", Ticker: "035720", Market: "KOSPI",
	})
	require.NoError(t, svc.RefreshRegistry(context.Background()))

	rec, err := svc.Resolve(context.Background(), "00401731")
	require.NoError(t, err)
	assert.Equal(t, "카카오", rec.Name)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 10, clampLimit(0, 10, 50))
	assert.Equal(t, 10, clampLimit(-1, 10, 50))
	assert.Equal(t, 25, clampLimit(25, 10, 50))
	assert.Equal(t, 50, clampLimit(99, 10, 50))
}
