// Package dart is a client for the DART corporate disclosure API
// (opendart.fss.or.kr), the mandatory registry behind the service.
package dart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jmkang/stockscope/internal/domain"
	"github.com/jmkang/stockscope/pkg/money"
)

// ErrNoData marks the registry's distinguishable "no data for this query"
// outcome (status 013), as opposed to a transport failure.
var ErrNoData = errors.New("dart: no data for request")

// UpstreamError is an application-level failure code from the registry.
type UpstreamError struct {
	Status  string
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("dart: upstream status %s: %s", e.Status, e.Message)
}

// Client is a DART API client
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
	retryWait  time.Duration // base backoff, doubled per attempt
	log        zerolog.Logger
}

// NewClient creates a new DART client
func NewClient(baseURL, apiKey string, log zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		maxRetries: 3,
		retryWait:  time.Second,
		log:        log.With().Str("client", "dart").Logger(),
	}
}

// GetCompanyInfo fetches the company profile for a corp code.
func (c *Client) GetCompanyInfo(ctx context.Context, code string) (*domain.CompanyInfo, error) {
	params := url.Values{"corp_code": {code}}

	var resp companyResponse
	if err := c.getJSON(ctx, "/company.json", params, &resp); err != nil {
		return nil, err
	}
	if err := resp.statusEnvelope.check(); err != nil {
		return nil, err
	}

	return &domain.CompanyInfo{
		Code:     code,
		Name:     resp.CorpName,
		NameEng:  resp.CorpNameEng,
		Ticker:   strings.TrimSpace(resp.StockCode),
		Market:   marketFromCorpClass(resp.CorpClass),
		CEO:      resp.CEOName,
		Address:  resp.Address,
		Homepage: resp.Homepage,
		Industry: resp.IndustryCode,
		Founded:  resp.EstablishedD,
	}, nil
}

// GetFiscalStatements fetches every quarterly filing available for the
// fiscal year. Periods the company has not filed yet (status 013) are
// simply absent from the result; transport failures propagate.
func (c *Client) GetFiscalStatements(ctx context.Context, code string, year int) ([]domain.FiscalStatement, error) {
	statements := make([]domain.FiscalStatement, 0, 4)

	for quarter := 1; quarter <= 4; quarter++ {
		st, err := c.getFiscalStatement(ctx, code, year, quarter)
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			return nil, err
		}
		statements = append(statements, *st)
	}

	return statements, nil
}

func (c *Client) getFiscalStatement(ctx context.Context, code string, year, quarter int) (*domain.FiscalStatement, error) {
	params := url.Values{
		"corp_code":  {code},
		"bsns_year":  {strconv.Itoa(year)},
		"reprt_code": {reportCodeByQuarter[quarter]},
	}

	var resp statementResponse
	if err := c.getJSON(ctx, "/fnlttSinglAcnt.json", params, &resp); err != nil {
		return nil, err
	}
	if err := resp.statusEnvelope.check(); err != nil {
		return nil, err
	}
	if len(resp.List) == 0 {
		return nil, ErrNoData
	}

	st := &domain.FiscalStatement{Year: year, Quarter: quarter}

	// Consolidated figures win; standalone rows only fill gaps.
	for _, pass := range []string{"CFS", "OFS"} {
		for _, row := range resp.List {
			if row.FSDiv != pass {
				continue
			}
			amount, ok := money.ParseAmount(row.CurrentAmount)
			if !ok {
				continue
			}
			assignAccount(st, row.AccountName, amount)
		}
	}

	return st, nil
}

// assignAccount maps a DART account name onto the statement, first
// occurrence wins.
func assignAccount(st *domain.FiscalStatement, name string, amount int64) {
	set := func(dst *int64) {
		if *dst == 0 {
			*dst = amount
		}
	}

	switch strings.TrimSpace(name) {
	case "매출액", "수익(매출액)", "영업수익":
		set(&st.Revenue)
	case "영업이익", "영업이익(손실)":
		set(&st.OperatingProfit)
	case "당기순이익", "당기순이익(손실)":
		set(&st.NetIncome)
	case "자산총계":
		set(&st.TotalAssets)
	case "부채총계":
		set(&st.TotalLiabilities)
	case "자본총계":
		set(&st.TotalEquity)
	case "유동자산":
		set(&st.CurrentAssets)
	case "유동부채":
		set(&st.CurrentLiabilities)
	case "현금및현금성자산":
		set(&st.CashAndEquivalents)
	}
}

// GetDisclosures fetches the most recent filings for a company.
func (c *Client) GetDisclosures(ctx context.Context, code string, limit int) ([]domain.Disclosure, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{
		"corp_code":  {code},
		"page_no":    {"1"},
		"page_count": {strconv.Itoa(limit)},
	}

	var resp listResponse
	if err := c.getJSON(ctx, "/list.json", params, &resp); err != nil {
		return nil, err
	}
	if err := resp.statusEnvelope.check(); err != nil {
		if errors.Is(err, ErrNoData) {
			return []domain.Disclosure{}, nil
		}
		return nil, err
	}

	disclosures := make([]domain.Disclosure, 0, len(resp.List))
	for _, row := range resp.List {
		disclosures = append(disclosures, domain.Disclosure{
			ReceiptNo: row.ReceiptNo,
			Title:     row.ReportName,
			Filer:     row.Filer,
			FiledAt:   row.ReceiptDt,
		})
	}
	return disclosures, nil
}

// check converts a non-success status into the matching error value.
func (e statusEnvelope) check() error {
	switch e.Status {
	case statusOK:
		return nil
	case statusNoData:
		return ErrNoData
	default:
		return &UpstreamError{Status: e.Status, Message: e.Message}
	}
}

// getJSON performs an authenticated GET with retry and exponential
// backoff. Client errors (4xx) are never retried.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.getWithRetry(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("dart: malformed response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) getWithRetry(ctx context.Context, path string, params url.Values) ([]byte, error) {
	params.Set("crtfc_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.retryWait * time.Duration(1<<uint(attempt-1))
			c.log.Warn().Err(lastErr).
				Str("path", path).
				Int("attempt", attempt+1).
				Dur("wait", wait).
				Msg("Retrying DART request")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, retryable, err := c.doGet(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("dart: request failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) doGet(ctx context.Context, reqURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, false, fmt.Errorf("dart: HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, true, fmt.Errorf("dart: HTTP %d", resp.StatusCode)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}
