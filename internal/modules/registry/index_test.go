package registry

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmkang/stockscope/internal/domain"
)

func testIndex() *Index {
	x := NewIndex(zerolog.Nop())
	x.Init([]domain.CompanyRecord{
		{Code: "00000001", Name: "삼성전자", Ticker: "005930", Market: "KOSPI"},
		{Code: "00000002", Name: "삼성전자우선주", Ticker: "005935", Market: "KOSPI"},
		{Code: "00000003", Name: "LG전자", Ticker: "066570", Market: "KOSPI"},
		{Code: "00000004", Name: "카카오", Ticker: "035720", Market: "KOSPI"},
		{Code: "00000005", Name: "NAVER", Ticker: "035420", Market: "KOSPI"},
	})
	return x
}

func names(records []domain.CompanyRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestSearchShortQueryReturnsNothing(t *testing.T) {
	x := testIndex()
	assert.Empty(t, x.Search("삼", 10))
	assert.Empty(t, x.Search("  a ", 10))
	assert.Empty(t, x.Search("", 10))
}

func TestSearchExactNameBeatsPrefix(t *testing.T) {
	x := testIndex()
	got := names(x.Search("삼성전자", 10))
	require.NotEmpty(t, got)
	assert.Equal(t, []string{"삼성전자", "삼성전자우선주"}, got)
}

func TestSearchExactBeatsContains(t *testing.T) {
	x := NewIndex(zerolog.Nop())
	x.Init([]domain.CompanyRecord{
		{Code: "1", Name: "한화전자소재", Ticker: "100001"},
		{Code: "2", Name: "전자", Ticker: "100002"},
	})

	got := names(x.Search("전자", 10))
	require.Len(t, got, 2)
	assert.Equal(t, "전자", got[0], "exact match ranks above contains")
}

func TestSearchTickerExact(t *testing.T) {
	x := testIndex()
	got := x.Search("005930", 10)
	require.NotEmpty(t, got)
	assert.Equal(t, "삼성전자", got[0].Name)
}

func TestSearchTickerPrefixRanksBelowNameContains(t *testing.T) {
	x := NewIndex(zerolog.Nop())
	x.Init([]domain.CompanyRecord{
		{Code: "1", Name: "회사1234", Ticker: "999999"},
		{Code: "2", Name: "다른회사", Ticker: "123456"},
	})

	got := x.Search("1234", 10)
	require.Len(t, got, 2)
	assert.Equal(t, "회사1234", got[0].Name)
	assert.Equal(t, "다른회사", got[1].Name)
}

func TestSearchSubsequence(t *testing.T) {
	x := testIndex()
	// Characters appear in order inside NAVER but not contiguously.
	got := names(x.Search("nvr", 10))
	assert.Equal(t, []string{"NAVER"}, got)
}

func TestSearchCaseInsensitive(t *testing.T) {
	x := testIndex()
	got := names(x.Search("naver", 10))
	assert.Equal(t, []string{"NAVER"}, got)
}

func TestSearchNoMatch(t *testing.T) {
	x := testIndex()
	assert.Empty(t, x.Search("zzzz", 10))
}

func TestSearchTiesKeepRegistryOrder(t *testing.T) {
	x := NewIndex(zerolog.Nop())
	x.Init([]domain.CompanyRecord{
		{Code: "1", Name: "동일제약", Ticker: "200001"},
		{Code: "2", Name: "동일금속", Ticker: "200002"},
		{Code: "3", Name: "동일고무", Ticker: "200003"},
	})

	got := names(x.Search("동일", 10))
	assert.Equal(t, []string{"동일제약", "동일금속", "동일고무"}, got)
}

func TestSearchLimit(t *testing.T) {
	x := testIndex()
	got := x.Search("전자", 1)
	assert.Len(t, got, 1)
}

func TestFindAndLifecycle(t *testing.T) {
	x := NewIndex(zerolog.Nop())
	assert.False(t, x.Ready())

	x.Init([]domain.CompanyRecord{{Code: "00000001", Name: "삼성전자", Ticker: "005930"}})
	assert.True(t, x.Ready())
	assert.Equal(t, 1, x.Len())

	rec, ok := x.Find("00000001")
	require.True(t, ok)
	assert.Equal(t, "삼성전자", rec.Name)

	_, ok = x.Find("99999999")
	assert.False(t, ok)

	x.Clear()
	assert.False(t, x.Ready())
	assert.Equal(t, 0, x.Len())
}
