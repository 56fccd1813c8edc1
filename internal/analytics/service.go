package analytics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/candidate-search/model"
	"github.com/gcbaptista/candidate-search/services"
)

const (
	analyticsFileName = "analytics.json"
	maxEventsToKeep   = 10000 // Keep last 10k events for performance
	topQueries        = 5
)

// PoolLister is the part of the engine the dashboard reads pool sizes from.
type PoolLister interface {
	ListPools() []string
	GetPool(name string) (services.PoolAccessor, error)
}

// Service implements analytics tracking and reporting
type Service struct {
	mutex        sync.RWMutex
	saveMutex    sync.Mutex
	pending      sync.WaitGroup
	events       []model.SearchEvent
	pools        PoolLister
	dataFilePath string
	now          func() time.Time
	log          *logrus.Entry
}

// NewService creates a new analytics service storing its events under dataDir
func NewService(pools PoolLister, dataDir string) *Service {
	service := &Service{
		events:       make([]model.SearchEvent, 0),
		pools:        pools,
		dataFilePath: filepath.Join(dataDir, analyticsFileName),
		now:          time.Now,
		log:          logrus.WithField("component", "analytics"),
	}

	if err := service.loadData(); err != nil {
		service.log.WithError(err).Warn("failed to load analytics data")
	}

	return service
}

// TrackSearchEvent records a new search event and saves the log in the background
func (s *Service) TrackSearchEvent(event model.SearchEvent) {
	s.mutex.Lock()
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}
	s.mutex.Unlock()

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.Flush(); err != nil {
			s.log.WithError(err).Warn("failed to save analytics data")
		}
	}()
}

// Close waits for background saves and writes the log one last time
func (s *Service) Close() error {
	s.pending.Wait()
	return s.Flush()
}

// EventCount returns how many events are retained
func (s *Service) EventCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.events)
}

// GetDashboardData returns complete analytics dashboard data
func (s *Service) GetDashboardData() model.AnalyticsDashboard {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := s.now()
	yesterday := now.Add(-24 * time.Hour)

	last24hEvents := filterEventsByTimeRange(s.events, yesterday, now.Add(time.Nanosecond))
	prev24hEvents := filterEventsByTimeRange(s.events, yesterday.Add(-24*time.Hour), yesterday)

	poolNames := s.pools.ListPools()
	usage := s.getPoolUsage(poolNames, last24hEvents)
	totalCandidates := 0
	for _, u := range usage {
		totalCandidates += u.CandidateCount
	}

	modes := getSearchModeStats(last24hEvents)
	locationShare := 0.0
	if len(last24hEvents) > 0 {
		locationShare = float64(modes.Exclusive) / float64(len(last24hEvents)) * 100
	}

	return model.AnalyticsDashboard{
		TotalSearches:         len(last24hEvents),
		SearchesChangePercent: calculateChangePercent(len(last24hEvents), len(prev24hEvents)),
		AvgResponseTime:       calculateAvgResponseTime(last24hEvents),
		TotalCandidates:       totalCandidates,
		ActivePools:           len(poolNames),
		LocationQueryShare:    locationShare,
		PopularSearches:       getPopularSearches(last24hEvents, func(model.SearchEvent) bool { return true }),
		ZeroResultQueries:     getPopularSearches(last24hEvents, func(e model.SearchEvent) bool { return e.ResultCount == 0 }),
		PoolUsage:             usage,
		SearchModes:           modes,
	}
}

// filterEventsByTimeRange returns events in [start, end)
func filterEventsByTimeRange(events []model.SearchEvent, start, end time.Time) []model.SearchEvent {
	var filtered []model.SearchEvent
	for _, event := range events {
		if !event.Timestamp.Before(start) && event.Timestamp.Before(end) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// calculateChangePercent calculates percentage change between current and previous values
func calculateChangePercent(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(current-previous) / float64(previous) * 100.0
}

// calculateAvgResponseTime calculates average response time for events in milliseconds
func calculateAvgResponseTime(events []model.SearchEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return (total / time.Duration(len(events))).Milliseconds()
}

// getPopularSearches returns the most frequent normalized queries among the events keep accepts
func getPopularSearches(events []model.SearchEvent, keep func(model.SearchEvent) bool) []model.PopularSearch {
	queryCounts := make(map[string]int)
	for _, event := range events {
		query := strings.ToLower(strings.TrimSpace(event.Query))
		if query != "" && keep(event) {
			queryCounts[query]++
		}
	}

	popular := make([]model.PopularSearch, 0, len(queryCounts))
	for query, count := range queryCounts {
		popular = append(popular, model.PopularSearch{Query: query, SearchCount: count})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].SearchCount != popular[j].SearchCount {
			return popular[i].SearchCount > popular[j].SearchCount
		}
		return popular[i].Query < popular[j].Query
	})

	if len(popular) > topQueries {
		popular = popular[:topQueries]
	}
	return popular
}

func (s *Service) getPoolUsage(poolNames []string, events []model.SearchEvent) []model.PoolUsage {
	searchCounts := make(map[string]int)
	for _, event := range events {
		searchCounts[event.PoolName]++
	}

	usage := make([]model.PoolUsage, 0, len(poolNames))
	for _, name := range poolNames {
		candidateCount := 0
		if pool, err := s.pools.GetPool(name); err == nil {
			candidateCount = pool.CandidateCount()
		}
		usage = append(usage, model.PoolUsage{
			PoolName:       name,
			CandidateCount: candidateCount,
			SearchCount:    searchCounts[name],
		})
	}
	return usage
}

func getSearchModeStats(events []model.SearchEvent) model.SearchModeStats {
	stats := model.SearchModeStats{}
	for _, event := range events {
		switch event.SearchMode {
		case model.SearchModeExclusive:
			stats.Exclusive++
		case model.SearchModeOpen:
			stats.Open++
		case model.SearchModePassthrough:
			stats.Passthrough++
		}
	}
	return stats
}

// loadData loads analytics data from file
func (s *Service) loadData() error {
	data, err := os.ReadFile(s.dataFilePath)
	if os.IsNotExist(err) {
		return nil // File doesn't exist yet, that's okay
	}
	if err != nil {
		return fmt.Errorf("failed to read analytics file: %w", err)
	}

	var events []model.SearchEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return fmt.Errorf("failed to unmarshal analytics data: %w", err)
	}
	if len(events) > maxEventsToKeep {
		events = events[len(events)-maxEventsToKeep:]
	}
	s.events = events
	return nil
}

// Flush writes the retained events to disk
func (s *Service) Flush() error {
	s.saveMutex.Lock()
	defer s.saveMutex.Unlock()

	s.mutex.RLock()
	data, err := json.MarshalIndent(s.events, "", "  ")
	s.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal analytics data: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.dataFilePath), 0o755); err != nil {
		return fmt.Errorf("failed to create analytics directory: %w", err)
	}
	tmp := s.dataFilePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write analytics file: %w", err)
	}
	return os.Rename(tmp, s.dataFilePath)
}
