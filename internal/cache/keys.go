package cache

import "time"

// Cache key namespace. Services must build keys through these helpers so
// the naming contract stays in one place.
const KeyCompanyList = "companies:all"

// KeyCompanyInfo returns the cache key for a company's profile.
func KeyCompanyInfo(code string) string { return "company:info:" + code }

// KeyDisclosures returns the cache key for a company's disclosure feed.
func KeyDisclosures(code string) string { return "company:disclosures:" + code }

// KeyNews returns the cache key for a company's news feed.
func KeyNews(code string) string { return "company:news:" + code }

// KeyFinancials embeds the calendar day so a new entry appears naturally
// at each day boundary, without explicit invalidation.
func KeyFinancials(code string, day time.Time) string {
	return "company:financials:" + code + ":" + day.Format("2006-01-02")
}

// Default freshness windows per resource.
var (
	// The company list is a daily snapshot: plain TTL, no SWR window.
	CompanyListOptions = Options{MaxAge: 24 * time.Hour}

	CompanyInfoOptions = Options{MaxAge: time.Hour, StaleTime: 30 * time.Minute}
	FinancialsOptions  = Options{MaxAge: time.Hour, StaleTime: 30 * time.Minute}
	DisclosuresOptions = Options{MaxAge: 30 * time.Minute, StaleTime: 15 * time.Minute}
	NewsOptions        = Options{MaxAge: 15 * time.Minute, StaleTime: 450 * time.Second}
)
