// Package testutil provides helpers shared by tests that drive a full engine.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/candidate-search/config"
	"github.com/gcbaptista/candidate-search/internal/engine"
	"github.com/gcbaptista/candidate-search/model"
	"github.com/gcbaptista/candidate-search/services"
)

// CreateTestEngine creates an engine rooted in a temporary directory.
// The engine is stopped when the test ends.
func CreateTestEngine(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	eng := engine.NewEngine(t.TempDir(), opts...)
	t.Cleanup(eng.Stop)
	return eng
}

// CreateTestPool creates a pool with default field names and gender as an
// extra filterable field.
func CreateTestPool(t *testing.T, eng *engine.Engine, poolName string) config.PoolSettings {
	t.Helper()
	settings := config.PoolSettings{
		Name:             poolName,
		FilterableFields: []string{"gender"},
	}

	err := eng.CreatePool(settings)
	require.NoError(t, err, "Failed to create test pool")

	return settings
}

// GhanaCandidates returns a small mixed pool: two drivers, a nurse and an
// accountant, three of them in Ghana.
func GhanaCandidates() []model.Candidate {
	return []model.Candidate{
		{"candidateID": "c1", "jobLookingFor": "Driver", "exactLocation": "Kumasi", "country": "Ghana", "gender": "male"},
		{"candidateID": "c2", "jobLookingFor": "Nurse", "exactLocation": "Accra", "country": "Ghana", "gender": "female"},
		{"candidateID": "c3", "jobLookingFor": "Truck driver", "exactLocation": "Accra", "country": "Ghana", "gender": "male"},
		{"candidateID": "c4", "jobLookingFor": "Accountant", "exactLocation": "Lagos", "country": "Nigeria", "gender": "female"},
	}
}

// AddTestCandidates adds candidates to a pool synchronously.
func AddTestCandidates(t *testing.T, eng *engine.Engine, poolName string, candidates []model.Candidate) {
	t.Helper()
	pool, err := eng.GetPool(poolName)
	require.NoError(t, err, "Failed to get pool accessor")

	_, _, err = pool.AddCandidates(candidates)
	require.NoError(t, err, "Failed to add test candidates")
}

// JobPollingOptions configures job polling behavior
type JobPollingOptions struct {
	Timeout     time.Duration
	LogProgress bool
}

// DefaultJobPollingOptions returns sensible defaults for job polling
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{Timeout: 5 * time.Second}
}

// WaitForJobCompletion blocks until the job finishes and fails the test if it
// did not complete successfully.
func WaitForJobCompletion(t *testing.T, eng *engine.Engine, jobID string, opts JobPollingOptions) *model.Job {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	job, err := eng.GetJobManager().Wait(ctx, jobID)
	require.NoError(t, err, "Job %s did not finish within %v", jobID, opts.Timeout)
	require.Equal(t, model.JobStatusCompleted, job.Status, "Job %s failed: %s", jobID, job.Error)

	if opts.LogProgress && job.Progress != nil {
		t.Logf("Job %s finished: %s", jobID, job.Progress.Message)
	}
	return job
}

// AssertJobCompleted verifies that a job completed successfully
func AssertJobCompleted(t *testing.T, job *model.Job, expectedType model.JobType, expectedPool string) {
	t.Helper()
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, expectedType, job.Type, "Job type should match")
	assert.Equal(t, expectedPool, job.PoolName, "Job pool name should match")
	assert.NotNil(t, job.CompletedAt, "Job should have completion timestamp")
	assert.Empty(t, job.Error, "Job should not have error")
}

// SearchTestCase represents a test case for search operations
type SearchTestCase struct {
	Name         string
	Query        services.SearchQuery
	ExpectedMode string
	ExpectedIDs  []string // candidate IDs of the hits in order
	ValidateFunc func(t *testing.T, results *services.SearchResult)
}

// RunSearchTests runs a suite of search tests against a pool
func RunSearchTests(t *testing.T, pool services.PoolAccessor, tests []SearchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			results, err := pool.Search(context.Background(), tt.Query)
			require.NoError(t, err, "Search should not fail")

			if tt.ExpectedMode != "" {
				assert.Equal(t, tt.ExpectedMode, results.Mode, "Search mode should match")
			}

			ids := make([]string, 0, len(results.Hits))
			for _, hit := range results.Hits {
				id, _ := hit.Candidate.GetCandidateID()
				ids = append(ids, id)
			}
			assert.Equal(t, tt.ExpectedIDs, ids, "Hits should match in order")

			if tt.ValidateFunc != nil {
				tt.ValidateFunc(t, &results)
			}
		})
	}
}
