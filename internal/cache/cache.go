// Package cache implements a two-tier stale-while-revalidate cache.
//
// The first tier is an in-process map with process lifetime. The second
// tier is a durable key-value store (SQLite) that survives restarts and
// runs its own TTL eviction. Reads check memory first and fall back to the
// durable tier; a live durable entry repopulates memory. Writes go through
// to both tiers, but a durable-tier failure never propagates to the
// caller: the cache degrades to process-local operation.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"
)

// Status describes an entry's position in its freshness windows.
type Status int

const (
	StatusMissing Status = iota
	StatusFresh
	StatusStale
	StatusExpired
)

// String returns the string representation of Status
func (s Status) String() string {
	switch s {
	case StatusFresh:
		return "fresh"
	case StatusStale:
		return "stale"
	case StatusExpired:
		return "expired"
	default:
		return "missing"
	}
}

// StatusOf is the pure freshness rule: fresh while age <= staleTime,
// stale while staleTime < age <= ttl, expired after ttl.
func StatusOf(age, ttl, staleTime time.Duration) Status {
	switch {
	case age > ttl:
		return StatusExpired
	case age > staleTime:
		return StatusStale
	default:
		return StatusFresh
	}
}

// DurableStore is the narrow contract the second tier must satisfy.
// Get returns (nil, nil) for ordinary absence.
type DurableStore interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// Options configures the freshness windows for one resource.
type Options struct {
	MaxAge    time.Duration
	StaleTime time.Duration // zero means MaxAge: plain TTL without an SWR window
}

func (o Options) staleTime() time.Duration {
	if o.StaleTime <= 0 || o.StaleTime > o.MaxAge {
		return o.MaxAge
	}
	return o.StaleTime
}

// Result is what GetWithSWR hands back to the caller.
type Result[T any] struct {
	Data         T
	Found        bool // false only when there was no usable entry at all
	IsStale      bool
	IsValidating bool
	Err          error
}

type entry struct {
	data      any
	timestamp time.Time
	ttl       time.Duration
	staleTime time.Duration
}

func (e *entry) status(now time.Time) Status {
	return StatusOf(now.Sub(e.timestamp), e.ttl, e.staleTime)
}

// storedEntry is the msgpack envelope written to the durable tier. It
// carries the freshness windows so status survives a process restart.
type storedEntry struct {
	Payload     []byte `msgpack:"payload"`
	Timestamp   int64  `msgpack:"ts"` // unix milliseconds
	TTLMillis   int64  `msgpack:"ttl_ms"`
	StaleMillis int64  `msgpack:"stale_ms"`
}

// Stats exposes cache manager counters for the system status endpoint.
type Stats struct {
	Entries              int   `json:"entries"`
	Revalidations        int64 `json:"revalidations"`
	RevalidationFailures int64 `json:"revalidation_failures"`
}

// Manager owns both tiers. It is the sole reader and writer of the
// in-process map; the durable tier is shared and accessed only through
// the DurableStore contract.
type Manager struct {
	mu           sync.Mutex
	entries      map[string]*entry
	revalidating map[string]struct{}
	flight       singleflight.Group
	store        DurableStore // nil disables the durable tier
	log          zerolog.Logger
	now          func() time.Time

	revalidations        atomic.Int64
	revalidationFailures atomic.Int64
}

// NewManager creates a cache manager. store may be nil, in which case the
// cache operates purely in-process.
func NewManager(store DurableStore, log zerolog.Logger) *Manager {
	return &Manager{
		entries:      make(map[string]*entry),
		revalidating: make(map[string]struct{}),
		store:        store,
		log:          log.With().Str("component", "cache").Logger(),
		now:          time.Now,
	}
}

// Set writes the value through to both tiers. The entry's windows are
// fixed at write time; a later Set replaces the entry wholesale.
func Set[T any](m *Manager, key string, value T, ttl, staleTime time.Duration) {
	if staleTime <= 0 || staleTime > ttl {
		staleTime = ttl
	}
	now := m.now()

	m.mu.Lock()
	m.entries[key] = &entry{data: value, timestamp: now, ttl: ttl, staleTime: staleTime}
	m.mu.Unlock()

	if m.store == nil {
		return
	}

	payload, err := msgpack.Marshal(value)
	if err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("Failed to encode cache value, skipping durable write")
		return
	}
	blob, err := msgpack.Marshal(storedEntry{
		Payload:     payload,
		Timestamp:   now.UnixMilli(),
		TTLMillis:   ttl.Milliseconds(),
		StaleMillis: staleTime.Milliseconds(),
	})
	if err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("Failed to encode cache envelope, skipping durable write")
		return
	}

	if err := m.store.Put(key, blob, ttl); err != nil {
		// Best effort: the in-process entry already landed.
		m.log.Warn().Err(err).Str("key", key).Msg("Durable cache write failed, continuing in-process only")
	}
}

// Get returns the cached value when a live (fresh or stale) entry exists
// in either tier.
func Get[T any](m *Manager, key string) (T, bool) {
	v, st := lookup[T](m, key)
	if st == StatusFresh || st == StatusStale {
		return v, true
	}
	var zero T
	return zero, false
}

// Delete removes the key from both tiers.
func (m *Manager) Delete(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()

	if m.store == nil {
		return
	}
	if err := m.store.Delete(key); err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("Durable cache delete failed")
	}
}

// StatusForKey probes the entry's status without mutating either tier.
func (m *Manager) StatusForKey(key string) Status {
	now := m.now()

	m.mu.Lock()
	e, ok := m.entries[key]
	m.mu.Unlock()
	if ok {
		if st := e.status(now); st != StatusExpired {
			return st
		}
	}

	if se, found := m.loadEnvelope(key); found {
		st := StatusOf(now.Sub(time.UnixMilli(se.Timestamp)),
			time.Duration(se.TTLMillis)*time.Millisecond,
			time.Duration(se.StaleMillis)*time.Millisecond)
		if st != StatusExpired {
			return st
		}
		ok = true
	}

	if ok {
		return StatusExpired
	}
	return StatusMissing
}

// Stats returns current counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	entries := len(m.entries)
	m.mu.Unlock()
	return Stats{
		Entries:              entries,
		Revalidations:        m.revalidations.Load(),
		RevalidationFailures: m.revalidationFailures.Load(),
	}
}

// GetWithSWR implements stale-while-revalidate over both tiers:
//
//   - fresh entry: returned as-is.
//   - stale entry: returned immediately; at most one background
//     revalidation per key is launched to refresh it.
//   - missing or expired: fetch runs synchronously, deduplicated across
//     concurrent callers. On failure an expired entry, if one survives, is
//     served with the error attached; otherwise only the error is returned.
func GetWithSWR[T any](ctx context.Context, m *Manager, key string, opts Options, fetch func(context.Context) (T, error)) Result[T] {
	staleTime := opts.staleTime()
	v, st := lookup[T](m, key)

	switch st {
	case StatusFresh:
		return Result[T]{Data: v, Found: true, IsValidating: m.isRevalidating(key)}

	case StatusStale:
		validating := true
		if m.beginRevalidation(key) {
			go func() {
				runID := uuid.New().String()[:8]
				defer m.endRevalidation(key)
				m.revalidations.Add(1)

				// Detached from the request context on purpose: the
				// refreshed value is useful even if the original caller
				// has gone away.
				fresh, err := fetch(context.Background())
				if err != nil {
					m.revalidationFailures.Add(1)
					m.log.Warn().Err(err).Str("key", key).Str("run", runID).
						Msg("Background revalidation failed, keeping stale entry")
					return
				}
				Set(m, key, fresh, opts.MaxAge, staleTime)
				m.log.Debug().Str("key", key).Str("run", runID).Msg("Background revalidation complete")
			}()
		}
		return Result[T]{Data: v, Found: true, IsStale: true, IsValidating: validating}
	}

	// Missing or expired: block on the fetch, shared across concurrent
	// callers of the same key.
	fetched, err, _ := m.flight.Do(key, func() (any, error) {
		val, ferr := fetch(ctx)
		if ferr != nil {
			return nil, ferr
		}
		Set(m, key, val, opts.MaxAge, staleTime)
		return val, nil
	})
	if err == nil {
		return Result[T]{Data: fetched.(T), Found: true}
	}

	if st == StatusExpired {
		// Graceful degradation: the dead entry is better than nothing.
		return Result[T]{Data: v, Found: true, IsStale: true, Err: err}
	}
	return Result[T]{Err: err}
}

// lookup resolves key against memory first, then the durable tier. An
// expired in-process value is still returned (with StatusExpired) so
// GetWithSWR can degrade gracefully when a refetch fails.
func lookup[T any](m *Manager, key string) (T, Status) {
	var zero T
	now := m.now()

	var expired T
	hadExpired := false

	m.mu.Lock()
	if e, ok := m.entries[key]; ok {
		st := e.status(now)
		v, cast := e.data.(T)
		if cast {
			if st != StatusExpired {
				m.mu.Unlock()
				return v, st
			}
			expired = v
			hadExpired = true
		}
	}
	m.mu.Unlock()

	se, found := m.loadEnvelope(key)
	if !found {
		if hadExpired {
			return expired, StatusExpired
		}
		return zero, StatusMissing
	}

	ts := time.UnixMilli(se.Timestamp)
	ttl := time.Duration(se.TTLMillis) * time.Millisecond
	staleTime := time.Duration(se.StaleMillis) * time.Millisecond
	st := StatusOf(now.Sub(ts), ttl, staleTime)
	if st == StatusExpired {
		if hadExpired {
			return expired, StatusExpired
		}
		return zero, StatusMissing
	}

	var v T
	if err := msgpack.Unmarshal(se.Payload, &v); err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("Failed to decode durable cache entry")
		if hadExpired {
			return expired, StatusExpired
		}
		return zero, StatusMissing
	}

	// Repopulate the fast tier with the original write time so the
	// freshness windows keep their meaning.
	m.mu.Lock()
	m.entries[key] = &entry{data: v, timestamp: ts, ttl: ttl, staleTime: staleTime}
	m.mu.Unlock()

	return v, st
}

// loadEnvelope reads and decodes the durable-tier envelope. Store errors
// are swallowed: the durable tier is best effort.
func (m *Manager) loadEnvelope(key string) (storedEntry, bool) {
	var se storedEntry
	if m.store == nil {
		return se, false
	}

	blob, err := m.store.Get(key)
	if err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("Durable cache read failed")
		return se, false
	}
	if blob == nil {
		return se, false
	}
	if err := msgpack.Unmarshal(blob, &se); err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("Corrupt durable cache envelope")
		return se, false
	}
	return se, true
}

// beginRevalidation marks key as having an in-flight background
// revalidation. It is checked and set before any blocking call, which is
// what makes the single-flight guarantee hold.
func (m *Manager) beginRevalidation(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, inFlight := m.revalidating[key]; inFlight {
		return false
	}
	m.revalidating[key] = struct{}{}
	return true
}

func (m *Manager) endRevalidation(key string) {
	m.mu.Lock()
	delete(m.revalidating, key)
	m.mu.Unlock()
}

func (m *Manager) isRevalidating(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, inFlight := m.revalidating[key]
	return inFlight
}
