package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/candidate-search/config"
	"github.com/gcbaptista/candidate-search/internal/errors"
	"github.com/gcbaptista/candidate-search/model"
)

// importBatchSize is how many candidates a sync job upserts between progress updates.
const importBatchSize = 500

// CreatePoolAsync creates a new pool in the background.
func (e *Engine) CreatePoolAsync(settings config.PoolSettings) (string, error) {
	if err := validatePoolSettings(settings); err != nil {
		return "", err
	}
	if _, err := e.instance(settings.Name); err == nil {
		return "", errors.NewPoolAlreadyExistsError(settings.Name)
	}

	return e.startJob(model.JobTypeCreatePool, settings.Name, nil, func(_ context.Context, _ model.Job) error {
		return e.CreatePool(settings)
	})
}

// AddCandidatesAsync upserts candidates in the background and persists the pool.
func (e *Engine) AddCandidatesAsync(poolName string, candidates []model.Candidate) (string, error) {
	instance, err := e.instance(poolName)
	if err != nil {
		return "", err
	}

	metadata := map[string]string{"candidate_count": strconv.Itoa(len(candidates))}
	return e.startJob(model.JobTypeAddCandidates, poolName, metadata, func(_ context.Context, job model.Job) error {
		e.jobManager.UpdateJobProgress(job.ID, 0, len(candidates), "adding candidates")
		added, updated, err := instance.AddCandidates(candidates)
		if err != nil {
			return fmt.Errorf("failed to add candidates to pool '%s': %w", poolName, err)
		}
		e.jobManager.UpdateJobProgress(job.ID, len(candidates), len(candidates),
			fmt.Sprintf("%d added, %d updated", added, updated))
		return e.PersistPoolData(poolName)
	})
}

// DeleteAllCandidatesAsync empties a pool in the background and persists it.
func (e *Engine) DeleteAllCandidatesAsync(poolName string) (string, error) {
	instance, err := e.instance(poolName)
	if err != nil {
		return "", err
	}

	return e.startJob(model.JobTypeDeleteAllCandidates, poolName, nil, func(_ context.Context, _ model.Job) error {
		if err := instance.DeleteAllCandidates(); err != nil {
			return err
		}
		return e.PersistPoolData(poolName)
	})
}

// SyncFromSQLAsync makes the pool mirror the SQL source. Candidates are
// upserted by ID and pool candidates the source no longer holds are removed.
func (e *Engine) SyncFromSQLAsync(poolName string) (string, error) {
	if e.source == nil {
		return "", errors.ErrSourceUnavailable
	}
	instance, err := e.instance(poolName)
	if err != nil {
		return "", err
	}

	return e.startJob(model.JobTypeSyncSQL, poolName, nil, func(ctx context.Context, job model.Job) error {
		candidates, err := e.source.ListCandidates(ctx, poolName)
		if err != nil {
			return fmt.Errorf("failed to read candidates for pool '%s': %w", poolName, err)
		}

		total := len(candidates)
		added, updated := 0, 0
		for start := 0; start < total; start += importBatchSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			end := min(start+importBatchSize, total)
			a, u, err := instance.AddCandidates(candidates[start:end])
			if err != nil {
				return fmt.Errorf("failed to import candidates %d-%d: %w", start, end, err)
			}
			added += a
			updated += u
			e.jobManager.UpdateJobProgress(job.ID, end, total, "importing candidates")
		}

		keep := make(map[string]struct{}, total)
		for _, c := range candidates {
			if id, ok := c.GetCandidateID(); ok {
				keep[id] = struct{}{}
			}
		}
		removed := instance.RetainCandidates(keep)

		e.jobManager.UpdateJobProgress(job.ID, total, total, fmt.Sprintf("%d added, %d updated, %d removed", added, updated, removed))
		e.log.WithFields(logrus.Fields{"pool": poolName, "added": added, "updated": updated, "removed": removed}).Info("sql sync finished")
		return e.PersistPoolData(poolName)
	})
}

// SnapshotAsync persists every pool in the background.
func (e *Engine) SnapshotAsync() (string, error) {
	return e.startJob(model.JobTypeSnapshot, "", nil, func(_ context.Context, job model.Job) error {
		saved, err := e.PersistAll()
		e.jobManager.UpdateJobProgress(job.ID, saved, saved, fmt.Sprintf("%d pools saved", saved))
		return err
	})
}

func (e *Engine) startJob(jobType model.JobType, poolName string, metadata map[string]string, fn func(context.Context, model.Job) error) (string, error) {
	jobID := e.jobManager.CreateJob(jobType, poolName, metadata)
	if err := e.jobManager.ExecuteJob(jobID, fn); err != nil {
		return "", fmt.Errorf("failed to start %s job: %w", jobType, err)
	}
	return jobID, nil
}
