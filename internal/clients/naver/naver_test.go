package naver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmkang/stockscope/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quoteFixture = `<html><body>
<p class="no_today"><em><span class="blind">71,500</span></em></p>
<table>
	<tr><th>52주최고<em>l</em>최저</th><td>88,800 <em>l</em> 64,500</td></tr>
	<tr><th>상장주식수</th><td>5,969,782,550</td></tr>
	<tr><th>ROE</th><td>8.95</td></tr>
	<tr><th>영업이익률</th><td>12.34</td></tr>
	<tr><th>부채비율</th><td>26.45</td></tr>
	<tr><th>당좌비율</th><td>190.12</td></tr>
</table>
<em id="_per">13.57</em>
<em id="_eps">5,269</em>
<em id="_pbr">1.31</em>
<em id="_dvr">2.02</em>
</body></html>`

func TestGetQuoteParsesFixture(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/item/main.naver", r.URL.Path)
		assert.Equal(t, "005930", r.URL.Query().Get("code"))
		w.Write([]byte(quoteFixture))
	}))
	defer srv.Close()

	client := NewQuoteClient(srv.URL, logger.New(logger.Config{Level: "error"}))
	quote := client.GetQuote(context.Background(), "005930")

	assert.Equal(t, 71500.0, quote.Price)
	assert.Equal(t, 13.57, quote.PER)
	assert.Equal(t, 5269.0, quote.EPS)
	assert.Equal(t, 1.31, quote.PBR)
	assert.Equal(t, 2.02, quote.DividendYield)
	assert.Equal(t, 5_969_782_550.0, quote.SharesOutstanding)
	assert.Equal(t, 8.95, quote.ROE)
	assert.Equal(t, 88800.0, quote.High52W)
	assert.Equal(t, 64500.0, quote.Low52W)
}

func TestGetQuoteReturnsSentinelOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewQuoteClient(srv.URL, logger.New(logger.Config{Level: "error"}))
	quote := client.GetQuote(context.Background(), "005930")

	assert.True(t, quote.IsZero())
}

func TestGetQuoteMissingPriceIsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><em id="_per">10.0</em></body></html>`))
	}))
	defer srv.Close()

	client := NewQuoteClient(srv.URL, logger.New(logger.Config{Level: "error"}))
	quote := client.GetQuote(context.Background(), "005930")

	assert.True(t, quote.IsZero(), "partial fundamentals without a price must not leak")
}

const newsFixture = `<html><body>
<div class="news_area">
	<div class="news_info"><a class="info press">한국경제</a><span class="info">1시간 전</span></div>
	<a class="news_tit" href="https://news.example.com/1">삼성전자, 2분기 실적 발표</a>
</div>
<div class="news_area">
	<div class="news_info"><a class="info press">연합뉴스</a><span class="info">3시간 전</span></div>
	<a class="news_tit" href="https://news.example.com/2">반도체 수출 증가</a>
</div>
</body></html>`

func TestGetArticlesParsesFixture(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "news", r.URL.Query().Get("where"))
		w.Write([]byte(newsFixture))
	}))
	defer srv.Close()

	client := NewNewsClient(srv.URL, logger.New(logger.Config{Level: "error"}))
	articles := client.GetArticles(context.Background(), "삼성전자", 10)

	require.Len(t, articles, 2)
	assert.Equal(t, "삼성전자, 2분기 실적 발표", articles[0].Title)
	assert.Equal(t, "https://news.example.com/1", articles[0].URL)
	assert.Equal(t, "한국경제", articles[0].Press)
}

func TestGetArticlesHonorsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(newsFixture))
	}))
	defer srv.Close()

	client := NewNewsClient(srv.URL, logger.New(logger.Config{Level: "error"}))
	articles := client.GetArticles(context.Background(), "삼성전자", 1)

	assert.Len(t, articles, 1)
}

func TestGetArticlesEmptyOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewNewsClient(srv.URL, logger.New(logger.Config{Level: "error"}))
	articles := client.GetArticles(context.Background(), "삼성전자", 10)

	assert.NotNil(t, articles)
	assert.Empty(t, articles)
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 1234.0, parseNumber("1,234"))
	assert.Equal(t, 12.34, parseNumber("12.34%"))
	assert.Equal(t, 56800.0, parseNumber(" 56,800 "))
	assert.Equal(t, 0.0, parseNumber("-"))
	assert.Equal(t, 0.0, parseNumber("N/A"))
	assert.Equal(t, 0.0, parseNumber(""))
	assert.Equal(t, -5.1, parseNumber("-5.1"))
}
