package engine

import (
	"context"
	"os"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/candidate-search/config"
	"github.com/gcbaptista/candidate-search/internal/cache"
	"github.com/gcbaptista/candidate-search/internal/errors"
	"github.com/gcbaptista/candidate-search/internal/jobs"
	"github.com/gcbaptista/candidate-search/internal/terms"
	"github.com/gcbaptista/candidate-search/model"
	"github.com/gcbaptista/candidate-search/services"
)

// CandidateSource supplies the candidates of a pool from an external store.
type CandidateSource interface {
	ListCandidates(ctx context.Context, poolName string) ([]model.Candidate, error)
}

// Engine manages multiple candidate pools.
// It implements the services.PoolManagerWithAsync interface.
type Engine struct {
	mu          sync.RWMutex
	pools       map[string]*PoolInstance
	dataDir     string
	dict        *terms.Dictionary
	resultCache cache.Cache
	source      CandidateSource
	jobManager  *jobs.Manager
	log         *logrus.Entry
}

// Option configures an Engine.
type Option func(*Engine)

// WithDictionary replaces the built-in term dictionary.
func WithDictionary(dict *terms.Dictionary) Option {
	return func(e *Engine) { e.dict = dict }
}

// WithCache sets the cache shared by the pools' search services.
func WithCache(c cache.Cache) Option {
	return func(e *Engine) { e.resultCache = c }
}

// WithSource sets the store the sync job imports from.
func WithSource(src CandidateSource) Option {
	return func(e *Engine) { e.source = src }
}

// WithMaxWorkers bounds how many background jobs run at once.
func WithMaxWorkers(n int) Option {
	return func(e *Engine) { e.jobManager = jobs.NewManager(n) }
}

// NewEngine creates the pool orchestrator and loads any pools saved under dataDir.
func NewEngine(dataDir string, opts ...Option) *Engine {
	eng := &Engine{
		pools:       make(map[string]*PoolInstance),
		dataDir:     dataDir,
		dict:        terms.Default(),
		resultCache: cache.Noop{},
		log:         logrus.WithField("component", "engine"),
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.jobManager == nil {
		eng.jobManager = jobs.NewManager(2)
	}
	eng.jobManager.Start()

	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		eng.log.WithError(err).WithField("data_dir", dataDir).Warn("could not create data directory")
	}
	eng.loadPoolsFromDisk()
	return eng
}

// Stop cancels running jobs. Call PersistAll first to keep recent changes.
func (e *Engine) Stop() {
	e.jobManager.Stop()
}

// GetJobManager returns the job manager tracking async operations.
func (e *Engine) GetJobManager() *jobs.Manager {
	return e.jobManager
}

// Dictionary returns the term dictionary the pools score with.
func (e *Engine) Dictionary() *terms.Dictionary {
	return e.dict
}

// HasSource reports whether a SQL candidate source is configured.
func (e *Engine) HasSource() bool {
	return e.source != nil
}

// GetPool retrieves a pool by its name.
func (e *Engine) GetPool(name string) (services.PoolAccessor, error) {
	instance, err := e.instance(name)
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func (e *Engine) instance(name string) (*PoolInstance, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.pools[name]
	if !exists {
		return nil, errors.NewPoolNotFoundError(name)
	}
	return instance, nil
}

// GetPoolSettings retrieves a copy of the settings of a pool.
func (e *Engine) GetPoolSettings(name string) (config.PoolSettings, error) {
	instance, err := e.instance(name)
	if err != nil {
		return config.PoolSettings{}, err
	}
	return instance.Settings(), nil
}

// ListPools returns the names of all loaded pools in lexical order.
func (e *Engine) ListPools() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.pools))
	for name := range e.pools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TotalCandidates sums the candidates of every pool.
func (e *Engine) TotalCandidates() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	total := 0
	for _, instance := range e.pools {
		total += instance.CandidateCount()
	}
	return total
}

// GetJob retrieves a background job by ID.
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// ListJobs returns the jobs of a pool, optionally filtered by status.
func (e *Engine) ListJobs(poolName string, status *model.JobStatus) []*model.Job {
	return e.jobManager.ListJobs(poolName, status)
}
