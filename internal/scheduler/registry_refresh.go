package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RegistryRefresher re-downloads the corporate registry snapshot and
// rebuilds the search index. Implemented by the company service.
type RegistryRefresher interface {
	RefreshRegistry(ctx context.Context) error
}

// RegistryRefreshJob keeps the company registry and search index current.
// Runs daily, before Korean market open.
type RegistryRefreshJob struct {
	refresher RegistryRefresher
	timeout   time.Duration
	log       zerolog.Logger
}

// NewRegistryRefreshJob creates a new registry refresh job
func NewRegistryRefreshJob(refresher RegistryRefresher, log zerolog.Logger) *RegistryRefreshJob {
	return &RegistryRefreshJob{
		refresher: refresher,
		timeout:   10 * time.Minute,
		log:       log.With().Str("job", "registry_refresh").Logger(),
	}
}

// Name returns the job name
func (j *RegistryRefreshJob) Name() string {
	return "registry_refresh"
}

// Run executes the registry refresh
func (j *RegistryRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	startTime := time.Now()
	if err := j.refresher.RefreshRegistry(ctx); err != nil {
		return err
	}

	j.log.Info().Dur("duration_ms", time.Since(startTime)).Msg("Registry refreshed")
	return nil
}
