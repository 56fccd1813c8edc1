package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/candidate-search/internal/errors"
	"github.com/gcbaptista/candidate-search/model"
)

func waitFor(t *testing.T, m *Manager, jobID string) *model.Job {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	job, err := m.Wait(ctx, jobID)
	require.NoError(t, err)
	return job
}

func TestJobManager_CreateJob(t *testing.T) {
	manager := NewManager(2)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeAddCandidates, "accra", map[string]string{"count": "3"})
	require.NotEmpty(t, jobID)

	job, err := manager.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobTypeAddCandidates, job.Type)
	assert.Equal(t, model.JobStatusPending, job.Status)
	assert.Equal(t, "accra", job.PoolName)

	job.Metadata["count"] = "tampered"
	again, _ := manager.GetJob(jobID)
	assert.Equal(t, "3", again.Metadata["count"], "callers receive copies")
}

func TestJobManager_GetJobNotFound(t *testing.T) {
	manager := NewManager(1)
	defer manager.Stop()

	_, err := manager.GetJob("missing")
	assert.ErrorIs(t, err, internalErrors.ErrJobNotFound)
}

func TestJobManager_ExecuteJob(t *testing.T) {
	manager := NewManager(2)
	manager.Start()
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeAddCandidates, "accra", nil)
	err := manager.ExecuteJob(jobID, func(ctx context.Context, job model.Job) error {
		assert.Equal(t, model.JobStatusRunning, job.Status)
		manager.UpdateJobProgress(jobID, 50, 100, "halfway")
		manager.UpdateJobProgress(jobID, 100, 100, "done")
		return nil
	})
	require.NoError(t, err)

	job := waitFor(t, manager, jobID)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
	require.NotNil(t, job.Progress)
	assert.Equal(t, 100, job.Progress.Current)
	assert.Equal(t, float64(100), job.Progress.GetProgressPercentage())
	assert.NotNil(t, job.StartedAt)
	assert.NotNil(t, job.CompletedAt)

	assert.ErrorContains(t, manager.ExecuteJob(jobID, func(context.Context, model.Job) error { return nil }), "not in pending status")
}

func TestJobManager_FailedJob(t *testing.T) {
	manager := NewManager(1)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeSyncSQL, "tema", nil)
	require.NoError(t, manager.ExecuteJob(jobID, func(context.Context, model.Job) error {
		return errors.New("database unreachable")
	}))

	job := waitFor(t, manager, jobID)
	assert.Equal(t, model.JobStatusFailed, job.Status)
	assert.Equal(t, "database unreachable", job.Error)

	metrics := manager.GetMetrics()
	assert.Equal(t, int64(1), metrics.JobsFailed)
	assert.Equal(t, 0.0, manager.GetJobSuccessRate())
}

func TestJobManager_WorkerLimit(t *testing.T) {
	manager := NewManager(1)
	defer manager.Stop()

	var running, peak int32
	release := make(chan struct{})
	var ids []string
	for i := 0; i < 3; i++ {
		id := manager.CreateJob(model.JobTypeAddCandidates, "kumasi", nil)
		ids = append(ids, id)
		require.NoError(t, manager.ExecuteJob(id, func(context.Context, model.Job) error {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			<-release
			atomic.AddInt32(&running, -1)
			return nil
		}))
	}

	assert.Eventually(t, func() bool { return manager.GetCurrentWorkload() == 3 }, time.Second, 5*time.Millisecond)
	close(release)
	for _, id := range ids {
		assert.Equal(t, model.JobStatusCompleted, waitFor(t, manager, id).Status)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
	assert.Equal(t, int64(0), manager.GetCurrentWorkload())
}

func TestJobManager_StopCancelsRunningJobs(t *testing.T) {
	manager := NewManager(1)

	started := make(chan struct{})
	jobID := manager.CreateJob(model.JobTypeSnapshot, "", nil)
	require.NoError(t, manager.ExecuteJob(jobID, func(ctx context.Context, _ model.Job) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}))
	<-started

	manager.Stop()

	job, err := manager.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCancelled, job.Status)

	late := manager.CreateJob(model.JobTypeSnapshot, "", nil)
	assert.Error(t, manager.ExecuteJob(late, func(context.Context, model.Job) error { return nil }))
}

func TestJobManager_ListJobs(t *testing.T) {
	manager := NewManager(1)
	defer manager.Stop()

	first := manager.CreateJob(model.JobTypeAddCandidates, "accra", nil)
	time.Sleep(time.Millisecond)
	second := manager.CreateJob(model.JobTypeDeleteAllCandidates, "accra", nil)
	manager.CreateJob(model.JobTypeAddCandidates, "tema", nil)

	jobs := manager.ListJobs("accra", nil)
	require.Len(t, jobs, 2)
	assert.Equal(t, second, jobs[0].ID)
	assert.Equal(t, first, jobs[1].ID)

	pending := model.JobStatusPending
	assert.Len(t, manager.ListJobs("accra", &pending), 2)
	completed := model.JobStatusCompleted
	assert.Empty(t, manager.ListJobs("accra", &completed))
	assert.Empty(t, manager.ListJobs("unknown", nil))
}

func TestJobManager_CleanupOldJobs(t *testing.T) {
	manager := NewManager(1)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeSnapshot, "", nil)
	require.NoError(t, manager.ExecuteJob(jobID, func(context.Context, model.Job) error { return nil }))
	waitFor(t, manager, jobID)
	pendingID := manager.CreateJob(model.JobTypeSnapshot, "", nil)

	assert.Equal(t, 0, manager.CleanupOldJobs(time.Hour))
	assert.Equal(t, 1, manager.CleanupOldJobs(-time.Second))

	_, err := manager.GetJob(jobID)
	assert.Error(t, err)
	_, err = manager.GetJob(pendingID)
	assert.NoError(t, err, "unfinished jobs are kept")
}

func TestJobMetrics(t *testing.T) {
	m := NewJobMetrics()
	m.RecordJobCreated(model.JobTypeSyncSQL)
	m.RecordJobStatusChange(model.JobStatusPending, model.JobStatusRunning)
	m.RecordJobStatusChange(model.JobStatusRunning, model.JobStatusCompleted)
	m.RecordJobCompleted(model.JobTypeSyncSQL, 20*time.Millisecond)
	m.RecordJobCreated(model.JobTypeSyncSQL)
	m.RecordJobStatusChange(model.JobStatusPending, model.JobStatusRunning)
	m.RecordJobStatusChange(model.JobStatusRunning, model.JobStatusCompleted)
	m.RecordJobCompleted(model.JobTypeSyncSQL, 40*time.Millisecond)

	data := m.GetMetrics()
	assert.Equal(t, int64(2), data.JobsCreated)
	assert.Equal(t, int64(2), data.JobsCompleted)
	assert.Equal(t, 30*time.Millisecond, data.AverageExecutionTime)
	assert.Equal(t, int64(30*time.Millisecond), data.AverageByType[model.JobTypeSyncSQL])
	assert.Equal(t, int64(2), data.JobsByStatus[model.JobStatusCompleted])
	assert.Equal(t, int64(0), data.JobsByStatus[model.JobStatusPending])
	assert.Equal(t, 1.0, m.GetSuccessRate())
}
