package repository_test

import (
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/UnknownOlympus/lodestar/internal/models"
	"github.com/UnknownOlympus/lodestar/internal/repository"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertRunQuery = `
		INSERT INTO ingestion_runs (
			request_id, generation, radius, latitude, longitude,
			status, listings, markers, error, started_at, finished_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11);
	`

const recentRunsQuery = `
		SELECT
			request_id::text, generation, radius, latitude, longitude,
			status, listings, markers, COALESCE(error, ''), started_at, finished_at
		FROM ingestion_runs
		ORDER BY finished_at DESC
		LIMIT $1;
	`

var runColumns = []string{
	"request_id", "generation", "radius", "latitude", "longitude",
	"status", "listings", "markers", "error", "started_at", "finished_at",
}

func sampleRun() models.IngestionRun {
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return models.IngestionRun{
		RequestID:  "5f1c7a8e-7d8b-4d6a-9a57-1d2b3c4d5e6f",
		Generation: 3,
		Radius:     "500",
		Latitude:   55.7436,
		Longitude:  37.7671,
		Status:     "success",
		Listings:   12,
		Markers:    10,
		StartedAt:  started,
		FinishedAt: started.Add(800 * time.Millisecond),
	}
}

func TestRecordRun(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	run := sampleRun()

	t.Run("error - insert run", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(insertRunQuery)).
			WithArgs(run.RequestID, int64(run.Generation), run.Radius, run.Latitude, run.Longitude,
				run.Status, run.Listings, run.Markers, run.Error, run.StartedAt, run.FinishedAt).
			WillReturnError(assert.AnError)

		err = repo.RecordRun(ctx, run)

		require.Error(t, err)
		require.ErrorContains(t, err, "failed to insert ingestion run")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - insert run", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(insertRunQuery)).
			WithArgs(run.RequestID, int64(run.Generation), run.Radius, run.Latitude, run.Longitude,
				run.Status, run.Listings, run.Markers, run.Error, run.StartedAt, run.FinishedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err = repo.RecordRun(ctx, run)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecentRuns(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	limit := 10
	run := sampleRun()

	t.Run("error - query runs", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(recentRunsQuery)).
			WithArgs(limit).
			WillReturnError(assert.AnError)

		runs, err := repo.RecentRuns(ctx, limit)

		require.Nil(t, runs)
		require.ErrorContains(t, err, "failed to query ingestion runs")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - scan run", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(recentRunsQuery)).
			WithArgs(limit).
			WillReturnRows(pgxmock.NewRows(runColumns).AddRow(
				run.RequestID, "not-a-number", run.Radius, run.Latitude, run.Longitude,
				run.Status, run.Listings, run.Markers, "", run.StartedAt, run.FinishedAt,
			))

		runs, err := repo.RecentRuns(ctx, limit)

		require.Nil(t, runs)
		require.ErrorContains(t, err, "failed to scan ingestion run")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - rows error", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(recentRunsQuery)).
			WithArgs(limit).
			WillReturnRows(pgxmock.NewRows(runColumns).AddRow(
				run.RequestID, int64(run.Generation), run.Radius, run.Latitude, run.Longitude,
				run.Status, run.Listings, run.Markers, "", run.StartedAt, run.FinishedAt,
			).RowError(1, assert.AnError))

		runs, err := repo.RecentRuns(ctx, limit)

		require.Nil(t, runs)
		require.ErrorContains(t, err, "failed to read row")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - fetch runs", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(recentRunsQuery)).
			WithArgs(limit).
			WillReturnRows(pgxmock.NewRows(runColumns).AddRow(
				run.RequestID, int64(run.Generation), run.Radius, run.Latitude, run.Longitude,
				run.Status, run.Listings, run.Markers, "", run.StartedAt, run.FinishedAt,
			))

		runs, err := repo.RecentRuns(ctx, limit)

		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, run, runs[0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMigrate(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS ingestion_runs")).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, repository.Migrate(t.Context(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}
