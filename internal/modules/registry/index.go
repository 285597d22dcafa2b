// Package registry holds the in-memory company search index built from
// the bulk corporate registry snapshot.
package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jmkang/stockscope/internal/domain"
)

// minQueryLen is the shortest normalized query the index answers.
const minQueryLen = 2

// Match scores, best rule wins.
const (
	scoreNameExact    = 100
	scoreNamePrefix   = 80
	scoreTickerExact  = 70
	scoreNameContains = 60
	scoreTickerPrefix = 50
	scoreSubsequence  = 40
)

// Index is a scored prefix/substring/subsequence matcher over company
// records. It is rebuilt wholesale from a registry snapshot and read
// concurrently by request handlers.
type Index struct {
	mu      sync.RWMutex
	records []indexed
	byCode  map[string]domain.CompanyRecord
	log     zerolog.Logger
}

type indexed struct {
	record      domain.CompanyRecord
	lowerName   string
	lowerTicker string
}

// NewIndex creates an empty, uninitialized index.
func NewIndex(log zerolog.Logger) *Index {
	return &Index{
		log: log.With().Str("component", "registry").Logger(),
	}
}

// Init replaces the index contents with a new snapshot. Registry order is
// preserved: it is the tie-breaker for equal scores.
func (x *Index) Init(records []domain.CompanyRecord) {
	indexedRecords := make([]indexed, 0, len(records))
	byCode := make(map[string]domain.CompanyRecord, len(records))
	for _, rec := range records {
		indexedRecords = append(indexedRecords, indexed{
			record:      rec,
			lowerName:   strings.ToLower(rec.Name),
			lowerTicker: strings.ToLower(rec.Ticker),
		})
		byCode[rec.Code] = rec
	}

	x.mu.Lock()
	x.records = indexedRecords
	x.byCode = byCode
	x.mu.Unlock()

	x.log.Info().Int("companies", len(records)).Msg("Search index rebuilt")
}

// Ready reports whether a snapshot has been loaded.
func (x *Index) Ready() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.byCode != nil
}

// Clear empties the index.
func (x *Index) Clear() {
	x.mu.Lock()
	x.records = nil
	x.byCode = nil
	x.mu.Unlock()
}

// Len returns the number of indexed companies.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.records)
}

// Find looks up a company by its registry code.
func (x *Index) Find(code string) (domain.CompanyRecord, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	rec, ok := x.byCode[code]
	return rec, ok
}

// Search returns up to limit records matching query, best score first,
// ties in registry order. Queries shorter than two runes return nothing.
func (x *Index) Search(query string, limit int) []domain.CompanyRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < minQueryLen || limit <= 0 {
		return nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	type scored struct {
		record domain.CompanyRecord
		score  int
	}
	matches := make([]scored, 0, limit)
	for _, rec := range x.records {
		if s := score(rec, q); s > 0 {
			matches = append(matches, scored{record: rec.record, score: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]domain.CompanyRecord, len(matches))
	for i, m := range matches {
		results[i] = m.record
	}
	return results
}

// score applies the match rules; the single best rule wins.
func score(rec indexed, q string) int {
	switch {
	case rec.lowerName == q:
		return scoreNameExact
	case strings.HasPrefix(rec.lowerName, q):
		return scoreNamePrefix
	case rec.lowerTicker != "" && rec.lowerTicker == q:
		return scoreTickerExact
	case strings.Contains(rec.lowerName, q):
		return scoreNameContains
	case rec.lowerTicker != "" && strings.HasPrefix(rec.lowerTicker, q):
		return scoreTickerPrefix
	case isSubsequence(q, rec.lowerName):
		return scoreSubsequence
	default:
		return 0
	}
}

// isSubsequence reports whether every rune of q appears in s in order,
// not necessarily contiguously.
func isSubsequence(q, s string) bool {
	runes := []rune(q)
	i := 0
	for _, r := range s {
		if i == len(runes) {
			return true
		}
		if r == runes[i] {
			i++
		}
	}
	return i == len(runes)
}
