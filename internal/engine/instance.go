package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gcbaptista/candidate-search/config"
	"github.com/gcbaptista/candidate-search/internal/cache"
	"github.com/gcbaptista/candidate-search/internal/errors"
	"github.com/gcbaptista/candidate-search/internal/metrics"
	"github.com/gcbaptista/candidate-search/internal/search"
	"github.com/gcbaptista/candidate-search/internal/terms"
	"github.com/gcbaptista/candidate-search/model"
	"github.com/gcbaptista/candidate-search/services"
	"github.com/gcbaptista/candidate-search/store"
)

// PoolInstance holds the store and search service of a single pool.
// It implements the services.PoolAccessor interface.
type PoolInstance struct {
	mu             sync.RWMutex // guards settings and searcher, which are swapped on update
	settings       *config.PoolSettings
	searcher       *search.Service
	dict           *terms.Dictionary
	resultCache    cache.Cache
	CandidateStore *store.CandidateStore
}

// NewPoolInstance creates a pool around candidateStore. A nil store starts empty.
func NewPoolInstance(settings config.PoolSettings, candidateStore *store.CandidateStore, dict *terms.Dictionary, resultCache cache.Cache) (*PoolInstance, error) {
	if settings.Name == "" {
		return nil, fmt.Errorf("pool name cannot be empty in settings")
	}
	if candidateStore == nil {
		candidateStore = store.NewCandidateStore()
	}
	instance := &PoolInstance{
		dict:           dict,
		resultCache:    resultCache,
		CandidateStore: candidateStore,
	}
	if err := instance.applySettings(settings); err != nil {
		return nil, err
	}
	return instance, nil
}

// applySettings installs new settings and a search service built from them.
func (p *PoolInstance) applySettings(settings config.PoolSettings) error {
	settings.ApplyDefaults()
	searcher, err := search.NewService(p.CandidateStore, &settings, p.dict, p.resultCache)
	if err != nil {
		return fmt.Errorf("failed to create search service for pool '%s': %w", settings.Name, err)
	}

	p.mu.Lock()
	p.settings = &settings
	p.searcher = searcher
	p.mu.Unlock()
	return nil
}

// AddCandidates upserts candidates by candidateID.
func (p *PoolInstance) AddCandidates(candidates []model.Candidate) (int, int, error) {
	added, updated, err := p.CandidateStore.Upsert(candidates)
	if err != nil {
		return 0, 0, err
	}
	p.publishSize()
	return added, updated, nil
}

// DeleteAllCandidates empties the pool.
func (p *PoolInstance) DeleteAllCandidates() error {
	p.CandidateStore.DeleteAll()
	p.publishSize()
	return nil
}

// DeleteCandidate removes one candidate.
func (p *PoolInstance) DeleteCandidate(candidateID string) error {
	if !p.CandidateStore.Delete(candidateID) {
		return errors.NewCandidateNotFoundError(candidateID, p.name())
	}
	p.publishSize()
	return nil
}

// RetainCandidates drops every candidate whose candidateID is not in keep.
func (p *PoolInstance) RetainCandidates(keep map[string]struct{}) int {
	removed := p.CandidateStore.Retain(keep)
	if removed > 0 {
		p.publishSize()
	}
	return removed
}

// GetCandidate returns one candidate by candidateID.
func (p *PoolInstance) GetCandidate(candidateID string) (model.Candidate, error) {
	c, ok := p.CandidateStore.Get(candidateID)
	if !ok {
		return nil, errors.NewCandidateNotFoundError(candidateID, p.name())
	}
	return c, nil
}

// ListCandidates pages through the pool in insertion order.
func (p *PoolInstance) ListCandidates(offset, limit int) ([]model.Candidate, int) {
	return p.CandidateStore.List(offset, limit)
}

// CandidateCount returns the number of candidates in the pool.
func (p *PoolInstance) CandidateCount() int {
	return p.CandidateStore.Count()
}

// Search delegates to the pool's search service and records the outcome.
func (p *PoolInstance) Search(ctx context.Context, query services.SearchQuery) (services.SearchResult, error) {
	p.mu.RLock()
	searcher := p.searcher
	p.mu.RUnlock()

	result, err := searcher.Search(ctx, query)
	if err != nil {
		return result, err
	}
	metrics.RecordSearch(result.Mode, result.Total, msDuration(result.Took), result.Cached)
	return result, nil
}

// Settings returns a copy of the pool's settings.
func (p *PoolInstance) Settings() config.PoolSettings {
	p.mu.RLock()
	defer p.mu.RUnlock()

	settings := *p.settings
	settings.FilterableFields = append([]string(nil), p.settings.FilterableFields...)
	return settings
}

func (p *PoolInstance) name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings.Name
}

func (p *PoolInstance) publishSize() {
	metrics.SetPoolSize(p.name(), p.CandidateStore.Count())
}

func msDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
