// Package naver scrapes quotes, fundamentals and news from Naver Finance
// and Naver News search. Both scrapers degrade instead of failing: the
// quote client returns an all-zero sentinel and the news client an empty
// slice, so enrichment failures never break a response.
package naver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/jmkang/stockscope/internal/domain"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

// QuoteClient scrapes price and fundamentals for a KRX ticker.
type QuoteClient struct {
	httpClient *http.Client
	baseURL    string
	log        zerolog.Logger
}

// NewQuoteClient creates a new quote scraper
func NewQuoteClient(baseURL string, log zerolog.Logger) *QuoteClient {
	return &QuoteClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.With().Str("client", "naver_quote").Logger(),
	}
}

// GetQuote returns scraped fundamentals for a ticker. On any failure it
// returns the zero-value sentinel instead of an error; the reason is
// logged so degradation stays observable.
func (c *QuoteClient) GetQuote(ctx context.Context, ticker string) domain.Quote {
	quote, err := c.fetchQuote(ctx, ticker)
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("Quote scrape failed, returning empty sentinel")
		return domain.Quote{}
	}
	return quote
}

func (c *QuoteClient) fetchQuote(ctx context.Context, ticker string) (domain.Quote, error) {
	var quote domain.Quote

	reqURL := fmt.Sprintf("%s/item/main.naver?code=%s", c.baseURL, ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return quote, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return quote, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return quote, fmt.Errorf("naver: HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return quote, err
	}

	quote.Price = parseNumber(doc.Find("p.no_today span.blind").First().Text())
	if quote.Price == 0 {
		// Without a price the page layout changed or the ticker is bad;
		// partial fundamentals would be misleading.
		return domain.Quote{}, fmt.Errorf("naver: no price found for %s", ticker)
	}

	quote.PER = parseNumber(doc.Find("#_per").First().Text())
	quote.EPS = parseNumber(doc.Find("#_eps").First().Text())
	quote.PBR = parseNumber(doc.Find("#_pbr").First().Text())
	quote.DividendYield = parseNumber(doc.Find("#_dvr").First().Text())

	quote.SharesOutstanding = parseNumber(cellAfterLabel(doc, "상장주식수"))
	quote.ROE = parseNumber(cellAfterLabel(doc, "ROE"))
	quote.OperatingMargin = parseNumber(cellAfterLabel(doc, "영업이익률"))
	quote.DebtRatio = parseNumber(cellAfterLabel(doc, "부채비율"))
	quote.CurrentRatio = parseNumber(cellAfterLabel(doc, "당좌비율"))

	if hiLo := cellAfterLabel(doc, "52주최고"); hiLo != "" {
		if parts := strings.SplitN(hiLo, "l", 2); len(parts) == 2 {
			quote.High52W = parseNumber(parts[0])
			quote.Low52W = parseNumber(parts[1])
		}
	}

	return quote, nil
}

// cellAfterLabel finds the first table row whose header contains label
// and returns its first data cell.
func cellAfterLabel(doc *goquery.Document, label string) string {
	var out string
	doc.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
		if !strings.Contains(th.Text(), label) {
			return true
		}
		out = strings.TrimSpace(th.Parent().Find("td").First().Text())
		return false
	})
	return out
}

// parseNumber converts a scraped cell ("1,234", "12.34%", "56,800 ") to a
// float. Returns 0 for anything unparseable, in line with the sentinel
// contract.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSuffix(s, "배")
	s = strings.TrimSuffix(s, "원")
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || s == "N/A" {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
