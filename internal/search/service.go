package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/candidate-search/config"
	"github.com/gcbaptista/candidate-search/internal/cache"
	internalErrors "github.com/gcbaptista/candidate-search/internal/errors"
	"github.com/gcbaptista/candidate-search/internal/query"
	"github.com/gcbaptista/candidate-search/internal/terms"
	"github.com/gcbaptista/candidate-search/internal/tokenizer"
	"github.com/gcbaptista/candidate-search/model"
	"github.com/gcbaptista/candidate-search/services"
	"github.com/gcbaptista/candidate-search/store"
)

// Service implements the search logic for a single pool.
// It fulfills the services.Searcher interface.
type Service struct {
	candidateStore *store.CandidateStore
	settings       *config.PoolSettings
	scorer         *Scorer
	resultCache    cache.Cache
}

// NewService creates a new search Service. dict may be nil for the built-in
// dictionary and resultCache may be nil to disable caching.
func NewService(candidateStore *store.CandidateStore, settings *config.PoolSettings, dict *terms.Dictionary, resultCache cache.Cache) (*Service, error) {
	if candidateStore == nil {
		return nil, fmt.Errorf("candidate store cannot be nil")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}
	if resultCache == nil {
		resultCache = cache.Noop{}
	}
	return &Service{
		candidateStore: candidateStore,
		settings:       settings,
		scorer:         NewScorer(dict, settings.Fields),
		resultCache:    resultCache,
	}, nil
}

// cachedHit is the cached form of one ranked result.
type cachedHit struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

// Search ranks the pool's candidates against query.QueryString.
func (s *Service) Search(ctx context.Context, q services.SearchQuery) (services.SearchResult, error) {
	startTime := time.Now()

	filters, err := s.effectiveFilters(q)
	if err != nil {
		return services.SearchResult{}, err
	}
	page, pageSize := s.pagination(q.Page, q.PageSize)
	prepared := s.scorer.Prepare(q.QueryString)
	mode := Mode(prepared.Query, q.QueryString)

	candidates, version := s.candidateStore.Snapshot()
	candidates = applyFilters(candidates, filters)

	var ranked []ScoredCandidate
	cached := false
	if mode == model.SearchModePassthrough {
		ranked = make([]ScoredCandidate, len(candidates))
		for i, c := range candidates {
			ranked[i] = ScoredCandidate{Candidate: c}
		}
	} else {
		useCache := s.settings.CacheResults && !q.Explain
		key := ""
		if useCache {
			key = s.cacheKey(version, q.QueryString, filters)
			ranked, cached = s.lookup(ctx, key, candidates)
		}
		if !cached {
			ranked = s.scorer.RankPrepared(candidates, prepared, q.Explain)
			if useCache {
				s.save(ctx, key, ranked)
			}
		}
	}

	total := len(ranked)
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	hits := make([]services.HitResult, 0, end-start)
	for _, r := range ranked[start:end] {
		hits = append(hits, services.HitResult{Candidate: r.Candidate, Score: r.Score, Breakdown: r.Breakdown})
	}

	return services.SearchResult{
		Hits:     hits,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Took:     time.Since(startTime).Milliseconds(),
		QueryId:  uuid.New().String(),
		Mode:     mode,
		Parsed:   prepared.Query,
		Cached:   cached,
	}, nil
}

// Mode classifies a search the way it will be scored.
func Mode(parsed query.ParsedQuery, raw string) string {
	switch {
	case IsPassThrough(raw):
		return model.SearchModePassthrough
	case parsed.Exclusive():
		return model.SearchModeExclusive
	default:
		return model.SearchModeOpen
	}
}

func (s *Service) pagination(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.settings.DefaultPageSize
		if pageSize <= 0 {
			pageSize = config.DefaultPageSize
		}
	}
	if pageSize > config.MaxPageSize {
		pageSize = config.MaxPageSize
	}
	return page, pageSize
}

// effectiveFilters merges the country shortcut into the filter map after
// checking every field is filterable for this pool.
func (s *Service) effectiveFilters(q services.SearchQuery) (map[string]string, error) {
	filters := make(map[string]string, len(q.Filters)+1)
	for field, value := range q.Filters {
		if !s.settings.IsFilterable(field) {
			return nil, internalErrors.NewValidationError("filters",
				fmt.Sprintf("field '%s' is not filterable in pool '%s'", field, s.settings.Name))
		}
		if v := strings.TrimSpace(value); v != "" {
			filters[field] = v
		}
	}
	if country := strings.TrimSpace(q.Country); country != "" {
		filters[s.settings.Fields.CountryField] = country
	}
	return filters, nil
}

func applyFilters(candidates []model.Candidate, filters map[string]string) []model.Candidate {
	if len(filters) == 0 {
		return candidates
	}
	out := make([]model.Candidate, 0, len(candidates))
	for _, c := range candidates {
		keep := true
		for field, want := range filters {
			if !strings.EqualFold(strings.TrimSpace(c.StringField(field)), want) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, c)
		}
	}
	return out
}

func (s *Service) cacheKey(version uint64, raw string, filters map[string]string) string {
	parts := []string{s.settings.Name, s.scorer.Fingerprint(), s.candidateStore.Generation(), strconv.FormatUint(version, 10), tokenizer.Normalize(raw)}
	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		parts = append(parts, field+"="+strings.ToLower(filters[field]))
	}
	return cache.Key(parts...)
}

// lookup resolves cached IDs against the snapshot they were ranked from.
func (s *Service) lookup(ctx context.Context, key string, candidates []model.Candidate) ([]ScoredCandidate, bool) {
	data, ok, err := s.resultCache.Get(ctx, key)
	if err != nil {
		logrus.WithError(err).WithField("pool", s.settings.Name).Warn("result cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var cachedHits []cachedHit
	if err := json.Unmarshal(data, &cachedHits); err != nil {
		logrus.WithError(err).WithField("pool", s.settings.Name).Warn("discarding unreadable cache entry")
		return nil, false
	}

	byID := make(map[string]model.Candidate, len(candidates))
	for _, c := range candidates {
		if id, ok := c.GetCandidateID(); ok {
			byID[id] = c
		}
	}
	ranked := make([]ScoredCandidate, 0, len(cachedHits))
	for _, h := range cachedHits {
		c, ok := byID[h.ID]
		if !ok {
			return nil, false
		}
		ranked = append(ranked, ScoredCandidate{Candidate: c, Score: h.Score})
	}
	return ranked, true
}

func (s *Service) save(ctx context.Context, key string, ranked []ScoredCandidate) {
	hits := make([]cachedHit, len(ranked))
	for i, r := range ranked {
		id, _ := r.Candidate.GetCandidateID()
		hits[i] = cachedHit{ID: id, Score: r.Score}
	}
	data, err := json.Marshal(hits)
	if err != nil {
		return
	}
	if err := s.resultCache.Set(ctx, key, data); err != nil {
		logrus.WithError(err).WithField("pool", s.settings.Name).Warn("result cache write failed")
	}
}
