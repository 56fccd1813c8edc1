package analytics

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/candidate-search/config"
	"github.com/gcbaptista/candidate-search/internal/engine"
	"github.com/gcbaptista/candidate-search/internal/testutil"
	"github.com/gcbaptista/candidate-search/model"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *engine.Engine, string) {
	t.Helper()
	dir := t.TempDir()
	eng := testutil.CreateTestEngine(t)

	service := NewService(eng, dir)
	service.now = func() time.Time { return fixedNow }
	return service, eng, dir
}

func TestTrackSearchEvent(t *testing.T) {
	service, _, _ := newTestService(t)
	defer service.Close()

	service.TrackSearchEvent(model.SearchEvent{
		PoolName:     "accra",
		Query:        "driver in Accra",
		SearchMode:   model.SearchModeExclusive,
		ResponseTime: 50 * time.Millisecond,
		ResultCount:  10,
	})

	require.Equal(t, 1, service.EventCount())
	service.mutex.RLock()
	stored := service.events[0]
	service.mutex.RUnlock()
	assert.Equal(t, "accra", stored.PoolName)
	assert.Equal(t, fixedNow, stored.Timestamp)
}

func TestTrackSearchEvent_KeepsLatest(t *testing.T) {
	service, _, _ := newTestService(t)
	defer service.Close()

	service.mutex.Lock()
	for range maxEventsToKeep {
		service.events = append(service.events, model.SearchEvent{Query: "old", Timestamp: fixedNow})
	}
	service.mutex.Unlock()

	service.TrackSearchEvent(model.SearchEvent{Query: "new"})

	assert.Equal(t, maxEventsToKeep, service.EventCount())
	service.mutex.RLock()
	defer service.mutex.RUnlock()
	assert.Equal(t, "new", service.events[len(service.events)-1].Query)
}

func TestGetDashboardData(t *testing.T) {
	service, eng, _ := newTestService(t)
	defer service.Close()

	require.NoError(t, eng.CreatePool(config.PoolSettings{Name: "accra"}))
	require.NoError(t, eng.CreatePool(config.PoolSettings{Name: "kumasi"}))
	pool, err := eng.GetPool("accra")
	require.NoError(t, err)
	_, _, err = pool.AddCandidates([]model.Candidate{{"candidateID": "a"}, {"candidateID": "b"}})
	require.NoError(t, err)

	events := []model.SearchEvent{
		{PoolName: "accra", Query: "Driver in Accra", SearchMode: model.SearchModeExclusive, ResponseTime: 30 * time.Millisecond, ResultCount: 5, Timestamp: fixedNow.Add(-time.Hour)},
		{PoolName: "accra", Query: "driver in accra ", SearchMode: model.SearchModeExclusive, ResponseTime: 10 * time.Millisecond, ResultCount: 2, Timestamp: fixedNow.Add(-2 * time.Hour)},
		{PoolName: "kumasi", Query: "astronaut", SearchMode: model.SearchModeOpen, ResponseTime: 20 * time.Millisecond, ResultCount: 0, Timestamp: fixedNow.Add(-3 * time.Hour)},
		{PoolName: "kumasi", Query: "a", SearchMode: model.SearchModePassthrough, ResponseTime: 0, ResultCount: 4, Timestamp: fixedNow.Add(-4 * time.Hour)},
		{PoolName: "accra", Query: "too old", SearchMode: model.SearchModeOpen, Timestamp: fixedNow.Add(-30 * time.Hour)},
	}
	for _, event := range events {
		service.TrackSearchEvent(event)
	}

	dashboard := service.GetDashboardData()

	assert.Equal(t, 4, dashboard.TotalSearches)
	assert.InDelta(t, 300.0, dashboard.SearchesChangePercent, 0.001)
	assert.Equal(t, int64(15), dashboard.AvgResponseTime)
	assert.Equal(t, 2, dashboard.ActivePools)
	assert.Equal(t, 2, dashboard.TotalCandidates)
	assert.InDelta(t, 50.0, dashboard.LocationQueryShare, 0.001)
	assert.Equal(t, model.SearchModeStats{Exclusive: 2, Open: 1, Passthrough: 1}, dashboard.SearchModes)

	require.NotEmpty(t, dashboard.PopularSearches)
	assert.Equal(t, model.PopularSearch{Query: "driver in accra", SearchCount: 2}, dashboard.PopularSearches[0])
	assert.Equal(t, []model.PopularSearch{{Query: "astronaut", SearchCount: 1}}, dashboard.ZeroResultQueries)

	assert.Equal(t, []model.PoolUsage{
		{PoolName: "accra", CandidateCount: 2, SearchCount: 2},
		{PoolName: "kumasi", CandidateCount: 0, SearchCount: 2},
	}, dashboard.PoolUsage)
}

func TestGetDashboardData_Empty(t *testing.T) {
	service, _, _ := newTestService(t)
	defer service.Close()

	dashboard := service.GetDashboardData()
	assert.Zero(t, dashboard.TotalSearches)
	assert.Zero(t, dashboard.SearchesChangePercent)
	assert.Zero(t, dashboard.LocationQueryShare)
	assert.Empty(t, dashboard.PopularSearches)
}

func TestPersistenceRoundTrip(t *testing.T) {
	service, eng, dir := newTestService(t)
	service.TrackSearchEvent(model.SearchEvent{PoolName: "p", Query: "nurse near Tema", ResultCount: 1})
	require.NoError(t, service.Close())
	assert.FileExists(t, filepath.Join(dir, analyticsFileName))

	reloaded := NewService(eng, dir)
	defer reloaded.Close()
	require.Equal(t, 1, reloaded.EventCount())
	reloaded.mutex.RLock()
	defer reloaded.mutex.RUnlock()
	assert.Equal(t, "nurse near Tema", reloaded.events[0].Query)
	assert.True(t, fixedNow.Equal(reloaded.events[0].Timestamp))
}
