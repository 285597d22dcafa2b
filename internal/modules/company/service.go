// Package company orchestrates the corporate registry: search, profiles,
// disclosure feeds and news, all behind the SWR cache.
package company

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jmkang/stockscope/internal/cache"
	"github.com/jmkang/stockscope/internal/clients/dart"
	"github.com/jmkang/stockscope/internal/domain"
	"github.com/jmkang/stockscope/internal/modules/registry"
)

const (
	defaultSearchLimit      = 10
	maxSearchLimit          = 50
	defaultDisclosuresLimit = 10
	maxDisclosuresLimit     = 50
	defaultNewsLimit        = 5
	maxNewsLimit            = 20
)

// RegistryClient is the slice of the disclosure-registry client this
// service needs.
type RegistryClient interface {
	ListCompanies(ctx context.Context) ([]domain.CompanyRecord, error)
	GetCompanyInfo(ctx context.Context, code string) (*domain.CompanyInfo, error)
	GetDisclosures(ctx context.Context, code string, limit int) ([]domain.Disclosure, error)
}

// NewsProvider supplies recent articles for a query; it degrades to an
// empty slice instead of failing.
type NewsProvider interface {
	GetArticles(ctx context.Context, query string, limit int) []domain.Article
}

// Service resolves companies and serves their profile, disclosure and
// news feeds.
type Service struct {
	cache    *cache.Manager
	registry RegistryClient
	news     NewsProvider
	index    *registry.Index
	log      zerolog.Logger
}

// NewService creates a new company service
func NewService(c *cache.Manager, reg RegistryClient, news NewsProvider, index *registry.Index, log zerolog.Logger) *Service {
	return &Service{
		cache:    c,
		registry: reg,
		news:     news,
		index:    index,
		log:      log.With().Str("service", "company").Logger(),
	}
}

// ensureIndex lazily loads the registry snapshot through the company-list
// cache key and builds the search index from it. The snapshot is a plain
// daily TTL entry, so a warm cache skips the bulk download entirely.
func (s *Service) ensureIndex(ctx context.Context) error {
	if s.index.Ready() {
		return nil
	}

	res := cache.GetWithSWR(ctx, s.cache, cache.KeyCompanyList, cache.CompanyListOptions,
		func(ctx context.Context) ([]domain.CompanyRecord, error) {
			return s.registry.ListCompanies(ctx)
		})
	if !res.Found {
		return res.Err
	}

	s.index.Init(res.Data)
	return nil
}

// Search returns companies matching the query, best match first.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]domain.CompanyRecord, error) {
	if err := s.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return s.index.Search(query, clampLimit(limit, defaultSearchLimit, maxSearchLimit)), nil
}

// Resolve maps a corp code to its registry record.
func (s *Service) Resolve(ctx context.Context, code string) (domain.CompanyRecord, error) {
	if err := s.ensureIndex(ctx); err != nil {
		return domain.CompanyRecord{}, err
	}
	rec, ok := s.index.Find(code)
	if !ok {
		return domain.CompanyRecord{}, domain.ErrCompanyNotFound
	}
	return rec, nil
}

// Info returns the detailed company profile, SWR cached.
func (s *Service) Info(ctx context.Context, code string) (*domain.CompanyInfo, error) {
	if _, err := s.Resolve(ctx, code); err != nil {
		return nil, err
	}

	res := cache.GetWithSWR(ctx, s.cache, cache.KeyCompanyInfo(code), cache.CompanyInfoOptions,
		func(ctx context.Context) (*domain.CompanyInfo, error) {
			return s.registry.GetCompanyInfo(ctx, code)
		})
	if !res.Found {
		if errors.Is(res.Err, dart.ErrNoData) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, res.Err
	}
	if res.Err != nil {
		s.log.Warn().Err(res.Err).Str("code", code).Msg("Serving expired company profile, refresh failed")
	}
	return res.Data, nil
}

// Disclosures returns the company's recent filings, SWR cached. The cache
// holds a fixed-size feed; the limit trims the cached slice.
func (s *Service) Disclosures(ctx context.Context, code string, limit int) ([]domain.Disclosure, error) {
	if _, err := s.Resolve(ctx, code); err != nil {
		return nil, err
	}

	res := cache.GetWithSWR(ctx, s.cache, cache.KeyDisclosures(code), cache.DisclosuresOptions,
		func(ctx context.Context) ([]domain.Disclosure, error) {
			return s.registry.GetDisclosures(ctx, code, maxDisclosuresLimit)
		})
	if !res.Found {
		return nil, res.Err
	}
	if res.Err != nil {
		s.log.Warn().Err(res.Err).Str("code", code).Msg("Serving expired disclosure feed, refresh failed")
	}

	limit = clampLimit(limit, defaultDisclosuresLimit, maxDisclosuresLimit)
	feed := res.Data
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}

// News returns recent articles about the company, queried by its display
// name and SWR cached.
func (s *Service) News(ctx context.Context, code string, limit int) ([]domain.Article, error) {
	rec, err := s.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}

	res := cache.GetWithSWR(ctx, s.cache, cache.KeyNews(code), cache.NewsOptions,
		func(ctx context.Context) ([]domain.Article, error) {
			return s.news.GetArticles(ctx, rec.Name, maxNewsLimit), nil
		})
	if !res.Found {
		return nil, res.Err
	}

	limit = clampLimit(limit, defaultNewsLimit, maxNewsLimit)
	articles := res.Data
	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

// RefreshRegistry re-downloads the bulk snapshot, rewrites the cached
// company list and rebuilds the search index. Used by the scheduler.
func (s *Service) RefreshRegistry(ctx context.Context) error {
	records, err := s.registry.ListCompanies(ctx)
	if err != nil {
		return err
	}

	cache.Set(s.cache, cache.KeyCompanyList, records, cache.CompanyListOptions.MaxAge, 0)
	s.index.Init(records)
	return nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
