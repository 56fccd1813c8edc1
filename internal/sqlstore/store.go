// Package sqlstore keeps candidate records in a SQL database so pools can be
// rebuilt from it. PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite) are supported.
package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	internalErrors "github.com/gcbaptista/candidate-search/internal/errors"
	"github.com/gcbaptista/candidate-search/model"
)

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS candidates (
		pool            TEXT NOT NULL,
		candidate_id    TEXT NOT NULL,
		job_looking_for TEXT NOT NULL DEFAULT '',
		exact_location  TEXT NOT NULL DEFAULT '',
		country         TEXT NOT NULL DEFAULT '',
		payload         TEXT NOT NULL,
		updated_at      BIGINT NOT NULL,
		PRIMARY KEY (pool, candidate_id)
	)`,
	`CREATE INDEX IF NOT EXISTS candidates_pool_country_idx ON candidates (pool, country)`,
}

const upsertQuery = `
	INSERT INTO candidates (pool, candidate_id, job_looking_for, exact_location, country, payload, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (pool, candidate_id) DO UPDATE SET
		job_looking_for = excluded.job_looking_for,
		exact_location  = excluded.exact_location,
		country         = excluded.country,
		payload         = excluded.payload,
		updated_at      = excluded.updated_at`

type candidateRow struct {
	CandidateID string `db:"candidate_id"`
	Payload     string `db:"payload"`
}

// Store reads and writes candidates through sqlx.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
	log *logrus.Entry
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, internalErrors.NewValidationError("driver", fmt.Sprintf("unsupported database driver %q", driver))
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one writer; also keeps ":memory:" databases on a single connection
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}
	return New(db), nil
}

// New wraps an existing handle.
func New(db *sqlx.DB) *Store {
	return &Store{
		db:  db,
		now: time.Now,
		log: logrus.WithFields(logrus.Fields{"component": "sqlstore", "driver": db.DriverName()}),
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema. It is safe to run on every start.
func (s *Store) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
	}
	return nil
}

// UpsertCandidates writes candidates of a pool in one transaction, replacing
// rows with the same candidateID.
func (s *Store) UpsertCandidates(ctx context.Context, poolName string, candidates []model.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := tx.Rebind(upsertQuery)
	updatedAt := s.now().Unix()
	for i, c := range candidates {
		id, ok := c.GetCandidateID()
		if !ok {
			return internalErrors.NewValidationError(model.FieldCandidateID,
				fmt.Sprintf("candidate at index %d has no string candidateID", i))
		}
		payload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode candidate %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, query, poolName, id,
			c.JobLookingFor(), c.ExactLocation(), c.Country(), string(payload), updatedAt); err != nil {
			return fmt.Errorf("upsert candidate %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	s.log.WithFields(logrus.Fields{"pool": poolName, "count": len(candidates)}).Debug("candidates upserted")
	return nil
}

// ListCandidates returns every candidate stored for the pool, ordered by candidateID.
func (s *Store) ListCandidates(ctx context.Context, poolName string) ([]model.Candidate, error) {
	var rows []candidateRow
	query := s.db.Rebind(`SELECT candidate_id, payload FROM candidates WHERE pool = ? ORDER BY candidate_id`)
	if err := s.db.SelectContext(ctx, &rows, query, poolName); err != nil {
		return nil, fmt.Errorf("list candidates of pool %s: %w", poolName, err)
	}

	candidates := make([]model.Candidate, 0, len(rows))
	for _, row := range rows {
		var c model.Candidate
		if err := json.Unmarshal([]byte(row.Payload), &c); err != nil {
			s.log.WithError(err).WithField("candidate_id", row.CandidateID).Warn("skipping unreadable candidate payload")
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// DeleteCandidate removes one candidate. It reports whether a row existed.
func (s *Store) DeleteCandidate(ctx context.Context, poolName, candidateID string) (bool, error) {
	query := s.db.Rebind(`DELETE FROM candidates WHERE pool = ? AND candidate_id = ?`)
	res, err := s.db.ExecContext(ctx, query, poolName, candidateID)
	if err != nil {
		return false, fmt.Errorf("delete candidate %s: %w", candidateID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountCandidates returns how many candidates the pool holds.
func (s *Store) CountCandidates(ctx context.Context, poolName string) (int, error) {
	var n int
	query := s.db.Rebind(`SELECT COUNT(*) FROM candidates WHERE pool = ?`)
	if err := s.db.GetContext(ctx, &n, query, poolName); err != nil {
		return 0, fmt.Errorf("count candidates of pool %s: %w", poolName, err)
	}
	return n, nil
}
