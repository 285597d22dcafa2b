package naver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/jmkang/stockscope/internal/domain"
)

// NewsClient scrapes news search results for a company.
type NewsClient struct {
	httpClient *http.Client
	baseURL    string
	log        zerolog.Logger
}

// NewNewsClient creates a new news scraper
func NewNewsClient(baseURL string, log zerolog.Logger) *NewsClient {
	return &NewsClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.With().Str("client", "naver_news").Logger(),
	}
}

// GetArticles returns recent articles matching the query. Failures
// degrade to an empty slice.
func (c *NewsClient) GetArticles(ctx context.Context, query string, limit int) []domain.Article {
	articles, err := c.fetchArticles(ctx, query, limit)
	if err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("News scrape failed, returning no articles")
		return []domain.Article{}
	}
	return articles
}

func (c *NewsClient) fetchArticles(ctx context.Context, query string, limit int) ([]domain.Article, error) {
	if limit <= 0 {
		limit = 10
	}

	reqURL := fmt.Sprintf("%s/search.naver?where=news&query=%s&sort=1", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver: HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	articles := make([]domain.Article, 0, limit)
	doc.Find("a.news_tit").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if len(articles) >= limit {
			return false
		}

		article := domain.Article{
			Title: strings.TrimSpace(a.Text()),
			URL:   a.AttrOr("href", ""),
		}

		area := a.Closest("div.news_area")
		article.Press = strings.TrimSpace(area.Find("a.info.press").First().Text())
		article.PublishedAt = strings.TrimSpace(area.Find("span.info").First().Text())

		if article.Title != "" && article.URL != "" {
			articles = append(articles, article)
		}
		return true
	})

	return articles, nil
}
