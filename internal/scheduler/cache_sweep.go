package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/jmkang/stockscope/internal/database"
)

// CacheSweepJob purges expired rows from the durable cache tier. The
// store already filters expired rows on read; this job just reclaims the
// space. Runs hourly.
type CacheSweepJob struct {
	kv  *database.KVStore
	log zerolog.Logger
}

// NewCacheSweepJob creates a new cache sweep job
func NewCacheSweepJob(kv *database.KVStore, log zerolog.Logger) *CacheSweepJob {
	return &CacheSweepJob{
		kv:  kv,
		log: log.With().Str("job", "cache_sweep").Logger(),
	}
}

// Name returns the job name
func (j *CacheSweepJob) Name() string {
	return "cache_sweep"
}

// Run executes the sweep
func (j *CacheSweepJob) Run() error {
	purged, err := j.kv.PurgeExpired()
	if err != nil {
		return err
	}
	if purged > 0 {
		j.log.Info().Int64("purged", purged).Msg("Expired cache entries purged")
	}
	return nil
}
