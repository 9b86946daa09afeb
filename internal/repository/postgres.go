package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/lodestar/internal/models"
)

// RecordRun stores the outcome of one listing ingestion.
// An empty error message is stored as NULL.
func (r *Repository) RecordRun(ctx context.Context, run models.IngestionRun) error {
	query := `
		INSERT INTO ingestion_runs (
			request_id, generation, radius, latitude, longitude,
			status, listings, markers, error, started_at, finished_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11);
	`

	_, err := r.db.Exec(ctx, query,
		run.RequestID, int64(run.Generation), run.Radius, run.Latitude, run.Longitude,
		run.Status, run.Listings, run.Markers, run.Error, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ingestion run: %w", err)
	}

	r.log.DebugContext(ctx, "Ingestion run recorded", "request_id", run.RequestID, "status", run.Status)

	return nil
}

// RecentRuns returns up to limit ingestion runs, newest first.
func (r *Repository) RecentRuns(ctx context.Context, limit int) ([]models.IngestionRun, error) {
	var runs []models.IngestionRun
	query := `
		SELECT
			request_id::text, generation, radius, latitude, longitude,
			status, listings, markers, COALESCE(error, ''), started_at, finished_at
		FROM ingestion_runs
		ORDER BY finished_at DESC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingestion runs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			run        models.IngestionRun
			generation int64
		)
		if errScan := rows.Scan(
			&run.RequestID, &generation, &run.Radius, &run.Latitude, &run.Longitude,
			&run.Status, &run.Listings, &run.Markers, &run.Error, &run.StartedAt, &run.FinishedAt,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan ingestion run: %w", errScan)
		}
		run.Generation = uint64(generation)
		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return runs, nil
}
