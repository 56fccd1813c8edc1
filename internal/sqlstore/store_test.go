package sqlstore

import (
	"context"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/candidate-search/internal/errors"
	"github.com/gcbaptista/candidate-search/model"
)

func sampleCandidates() []model.Candidate {
	return []model.Candidate{
		{"candidateID": "b", "jobLookingFor": "Nurse", "exactLocation": "Accra", "country": "Ghana"},
		{"candidateID": "a", "jobLookingFor": "Driver", "exactLocation": "Kumasi", "country": "Ghana", "years": 4.0},
	}
}

func openSQLite(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "dsn")
	assert.ErrorIs(t, err, internalErrors.ErrInvalidInput)
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	require.NoError(t, s.Migrate(ctx), "migrations are idempotent")
	require.NoError(t, s.UpsertCandidates(ctx, "ghana", sampleCandidates()))
	require.NoError(t, s.UpsertCandidates(ctx, "other", []model.Candidate{{"candidateID": "z"}}))

	got, err := s.ListCandidates(ctx, "ghana")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0]["candidateID"])
	assert.Equal(t, 4.0, got[0]["years"])
	assert.Equal(t, "Nurse", got[1].JobLookingFor())

	n, err := s.CountCandidates(ctx, "ghana")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSQLite_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	require.NoError(t, s.UpsertCandidates(ctx, "p", sampleCandidates()))
	require.NoError(t, s.UpsertCandidates(ctx, "p", []model.Candidate{
		{"candidateID": "a", "jobLookingFor": "Chef", "exactLocation": "Tema", "country": "Ghana"},
	}))

	got, err := s.ListCandidates(ctx, "p")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Chef", got[0].JobLookingFor())
	_, hasYears := got[0]["years"]
	assert.False(t, hasYears)
}

func TestSQLite_DeleteCandidate(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)
	require.NoError(t, s.UpsertCandidates(ctx, "p", sampleCandidates()))

	deleted, err := s.DeleteCandidate(ctx, "p", "a")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteCandidate(ctx, "p", "a")
	require.NoError(t, err)
	assert.False(t, deleted)

	n, err := s.CountCandidates(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLite_UpsertRejectsMissingID(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	err := s.UpsertCandidates(ctx, "p", []model.Candidate{
		{"candidateID": "ok"},
		{"jobLookingFor": "Driver"},
	})
	assert.ErrorIs(t, err, internalErrors.ErrInvalidInput)

	n, err := s.CountCandidates(ctx, "p")
	require.NoError(t, err)
	assert.Zero(t, n, "the transaction rolls back")
}

func TestMigrate_ExecutesAllStatements(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range migrations {
		mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	s := New(sqlx.NewDb(db, DriverPostgres))
	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_UsesPostgresPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := New(sqlx.NewDb(db, DriverPostgres))
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1, $2, $3, $4, $5, $6, $7)")).
		WithArgs("ghana", "b", "Nurse", "Accra", "Ghana", sqlmock.AnyArg(), int64(1700000000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO candidates").
		WithArgs("ghana", "a", "Driver", "Kumasi", "Ghana", sqlmock.AnyArg(), int64(1700000000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.UpsertCandidates(context.Background(), "ghana", sampleCandidates()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCandidates_SkipsBadPayload(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"candidate_id", "payload"}).
		AddRow("a", `{"candidateID":"a","jobLookingFor":"Driver"}`).
		AddRow("b", `not json`)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE pool = $1")).WithArgs("ghana").WillReturnRows(rows)

	s := New(sqlx.NewDb(db, DriverPostgres))
	got, err := s.ListCandidates(context.Background(), "ghana")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Driver", got[0].JobLookingFor())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	ctx := context.Background()
	s, err := Open(ctx, DriverPostgres, dsn)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Migrate(ctx))

	pool := "it-" + time.Now().Format("150405.000000")
	require.NoError(t, s.UpsertCandidates(ctx, pool, sampleCandidates()))
	got, err := s.ListCandidates(ctx, pool)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	for _, c := range got {
		id, _ := c.GetCandidateID()
		_, err := s.DeleteCandidate(ctx, pool, id)
		require.NoError(t, err)
	}
}
