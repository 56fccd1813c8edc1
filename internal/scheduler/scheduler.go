// Package scheduler runs the periodic maintenance of the service: pool
// snapshots and pruning of finished jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Defaults for the maintenance tasks.
const (
	CleanupSpec = "@hourly"
	JobMaxAge   = 24 * time.Hour
)

// Snapshotter persists every pool in the background.
type Snapshotter interface {
	SnapshotAsync() (string, error)
}

// JobCleaner drops finished jobs older than maxAge.
type JobCleaner interface {
	CleanupOldJobs(maxAge time.Duration) int
}

// Scheduler wraps a cron runner.
type Scheduler struct {
	cron     *cron.Cron
	snapshot Snapshotter
	jobs     JobCleaner
	log      *logrus.Entry
}

// New registers the snapshot task on snapshotSpec and the job cleanup hourly.
// An empty snapshotSpec disables snapshots.
func New(snapshotSpec string, snapshot Snapshotter, jobs JobCleaner) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		snapshot: snapshot,
		jobs:     jobs,
		log:      logrus.WithField("component", "scheduler"),
	}

	if snapshotSpec != "" && snapshot != nil {
		if _, err := s.cron.AddFunc(snapshotSpec, s.runSnapshot); err != nil {
			return nil, fmt.Errorf("invalid snapshot schedule %q: %w", snapshotSpec, err)
		}
	}
	if jobs != nil {
		if _, err := s.cron.AddFunc(CleanupSpec, s.runCleanup); err != nil {
			return nil, fmt.Errorf("invalid cleanup schedule: %w", err)
		}
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.WithField("tasks", len(s.cron.Entries())).Info("scheduler started")
}

// Stop prevents new runs and waits for running ones until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tasks returns how many periodic tasks are registered.
func (s *Scheduler) Tasks() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) runSnapshot() {
	jobID, err := s.snapshot.SnapshotAsync()
	if err != nil {
		s.log.WithError(err).Error("failed to start snapshot")
		return
	}
	s.log.WithField("job_id", jobID).Debug("snapshot started")
}

func (s *Scheduler) runCleanup() {
	if removed := s.jobs.CleanupOldJobs(JobMaxAge); removed > 0 {
		s.log.WithField("removed", removed).Info("old jobs cleaned up")
	}
}
