package services

import (
	"context"

	"github.com/gcbaptista/candidate-search/config"
	"github.com/gcbaptista/candidate-search/internal/query"
	"github.com/gcbaptista/candidate-search/model"
)

// HitResult represents a single candidate in the search results.
type HitResult struct {
	Candidate model.Candidate       `json:"candidate"`
	Score     int                   `json:"score"`
	Breakdown *model.ScoreBreakdown `json:"breakdown,omitempty"` // Present when the query asked for explain
}

type SearchResult struct {
	Hits     []HitResult       `json:"hits"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Took     int64             `json:"took"`     // milliseconds
	QueryId  string            `json:"query_id"` // unique UUID for this search query
	Mode     string            `json:"mode"`     // exclusive, open or passthrough
	Parsed   query.ParsedQuery `json:"parsed"`
	Cached   bool              `json:"cached"`
}

type SearchQuery struct {
	QueryString string            `json:"query"`
	Page        int               `json:"page,omitempty"`
	PageSize    int               `json:"page_size,omitempty"`
	Country     string            `json:"country,omitempty"` // Case-insensitive exact match on the country field, applied before ranking
	Filters     map[string]string `json:"filters,omitempty"` // Case-insensitive exact matches on filterable fields
	Explain     bool              `json:"explain,omitempty"` // Attach a score breakdown to every hit
}

// CandidateWriter defines operations for changing the candidates of a pool
type CandidateWriter interface {
	AddCandidates(candidates []model.Candidate) (added, updated int, err error)
	DeleteAllCandidates() error
	DeleteCandidate(candidateID string) error
}

// CandidateReader defines read access to the candidates of a pool
type CandidateReader interface {
	GetCandidate(candidateID string) (model.Candidate, error)
	ListCandidates(offset, limit int) ([]model.Candidate, int)
	CandidateCount() int
}

// Searcher defines operations for querying a pool
type Searcher interface {
	Search(ctx context.Context, query SearchQuery) (SearchResult, error)
}

type PoolAccessor interface {
	CandidateWriter
	CandidateReader
	Searcher
	Settings() config.PoolSettings
}

// PoolManager manages the lifecycle of candidate pools
type PoolManager interface {
	CreatePool(settings config.PoolSettings) error
	GetPool(name string) (PoolAccessor, error)
	GetPoolSettings(name string) (config.PoolSettings, error)
	UpdatePoolSettings(name string, settings config.PoolSettings) error
	RenamePool(oldName, newName string) error
	DeletePool(name string) error
	ListPools() []string
	PersistPoolData(poolName string) error
}

// PoolManagerWithAsync extends PoolManager with background variants of the slow operations.
// Each returns the ID of the job tracking the work.
type PoolManagerWithAsync interface {
	PoolManager
	CreatePoolAsync(settings config.PoolSettings) (string, error)
	AddCandidatesAsync(poolName string, candidates []model.Candidate) (string, error)
	DeleteAllCandidatesAsync(poolName string) (string, error)
	SyncFromSQLAsync(poolName string) (string, error)
	SnapshotAsync() (string, error)
}

// JobManager defines operations for managing background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(poolName string, status *model.JobStatus) []*model.Job
}
