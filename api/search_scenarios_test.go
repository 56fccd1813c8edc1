package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/candidate-search/config"
	"github.com/gcbaptista/candidate-search/internal/testutil"
	"github.com/gcbaptista/candidate-search/model"
	"github.com/gcbaptista/candidate-search/services"
)

func TestPoolSearchScenarios(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	testutil.CreateTestPool(t, eng, "ghana")
	testutil.AddTestCandidates(t, eng, "ghana", testutil.GhanaCandidates())

	pool, err := eng.GetPool("ghana")
	require.NoError(t, err)

	testutil.RunSearchTests(t, pool, []testutil.SearchTestCase{
		{
			Name:         "job and location",
			Query:        services.SearchQuery{QueryString: "driver in Accra"},
			ExpectedMode: model.SearchModeExclusive,
			ExpectedIDs:  []string{"c3", "c2"},
		},
		{
			Name:         "location mismatch zeroes the job match",
			Query:        services.SearchQuery{QueryString: "nurse in Kumasi"},
			ExpectedMode: model.SearchModeExclusive,
			ExpectedIDs:  []string{"c1"},
		},
		{
			Name:         "equal scores keep insertion order",
			Query:        services.SearchQuery{QueryString: "driver"},
			ExpectedMode: model.SearchModeOpen,
			ExpectedIDs:  []string{"c1", "c3", "c2", "c4"},
			ValidateFunc: func(t *testing.T, results *services.SearchResult) {
				assert.Equal(t, results.Hits[0].Score, results.Hits[1].Score)
				// nurse and accountant are dictionary phrases of their own
				assert.Equal(t, 100, results.Hits[2].Score)
				assert.Equal(t, results.Hits[2].Score, results.Hits[3].Score)
			},
		},
		{
			Name:         "country filter",
			Query:        services.SearchQuery{QueryString: "accountant", Country: "nigeria"},
			ExpectedMode: model.SearchModeOpen,
			ExpectedIDs:  []string{"c4"},
		},
		{
			Name:         "short query passes through",
			Query:        services.SearchQuery{QueryString: "x"},
			ExpectedMode: model.SearchModePassthrough,
			ExpectedIDs:  []string{"c1", "c2", "c3", "c4"},
		},
		{
			Name:         "extra filter with explain",
			Query:        services.SearchQuery{QueryString: "nurse", Filters: map[string]string{"gender": "Female"}, Explain: true},
			ExpectedMode: model.SearchModeOpen,
			ExpectedIDs:  []string{"c2", "c4"},
			ValidateFunc: func(t *testing.T, results *services.SearchResult) {
				require.NotNil(t, results.Hits[0].Breakdown)
				assert.Equal(t, "accountant", results.Hits[1].Breakdown.PhraseMatch)
				assert.Equal(t, results.Hits[0].Score, results.Hits[0].Breakdown.Total)
			},
		},
	})
}

func TestAsyncPoolLifecycle(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	opts := testutil.DefaultJobPollingOptions()

	jobID, err := eng.CreatePoolAsync(config.PoolSettings{Name: "lifecycle"})
	require.NoError(t, err)
	testutil.AssertJobCompleted(t, testutil.WaitForJobCompletion(t, eng, jobID, opts), model.JobTypeCreatePool, "lifecycle")

	jobID, err = eng.AddCandidatesAsync("lifecycle", testutil.GhanaCandidates())
	require.NoError(t, err)
	job := testutil.WaitForJobCompletion(t, eng, jobID, opts)
	testutil.AssertJobCompleted(t, job, model.JobTypeAddCandidates, "lifecycle")

	jobID, err = eng.DeleteAllCandidatesAsync("lifecycle")
	require.NoError(t, err)
	testutil.AssertJobCompleted(t, testutil.WaitForJobCompletion(t, eng, jobID, opts), model.JobTypeDeleteAllCandidates, "lifecycle")

	pool, err := eng.GetPool("lifecycle")
	require.NoError(t, err)
	assert.Zero(t, pool.CandidateCount())
}
