package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jmkang/stockscope/internal/reliability"
)

// BackupJob ships a nightly snapshot of the cache database to the object
// store and rotates old archives.
type BackupJob struct {
	backups       *reliability.BackupService
	retentionDays int
	timeout       time.Duration
	log           zerolog.Logger
}

// NewBackupJob creates a new backup job
func NewBackupJob(backups *reliability.BackupService, retentionDays int, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		backups:       backups,
		retentionDays: retentionDays,
		timeout:       15 * time.Minute,
		log:           log.With().Str("job", "backup").Logger(),
	}
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return "backup"
}

// Run executes the backup and rotation
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.backups.CreateAndUploadBackup(ctx); err != nil {
		return err
	}

	if err := j.backups.RotateOldBackups(ctx, j.retentionDays); err != nil {
		// Rotation failure should not mask a successful backup.
		j.log.Warn().Err(err).Msg("Backup rotation failed")
	}
	return nil
}
