package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/DP-Tech1324/realtor-jigar-suite/internal/model"
)

// RunRepository records one audit row per sync run so operators can diagnose
// partial runs without digging through job logs.
type RunRepository struct {
	DB *sql.DB
}

// Save inserts the run summary and returns the generated run id.
func (r *RunRepository) Save(run model.SyncRun) (string, error) {
	id := run.ID
	if id == "" {
		id = uuid.New().String()
	}

	_, err := r.DB.Exec(`
		INSERT INTO ddf_sync_runs
		(id, started_at, finished_at, status, fetched, mapped, skipped, upserted, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, run.StartedAt, run.FinishedAt, run.Status,
		run.Fetched, run.Mapped, run.Skipped, run.Upserted, run.Error)
	if err != nil {
		return "", err
	}

	return id, nil
}

// Recent lists the latest runs, newest first.
func (r *RunRepository) Recent(limit int) ([]model.SyncRun, error) {
	rows, err := r.DB.Query(`
		SELECT id, started_at, finished_at, status, fetched, mapped, skipped, upserted, error
		FROM ddf_sync_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.SyncRun
	for rows.Next() {
		var run model.SyncRun
		if err := rows.Scan(
			&run.ID, &run.StartedAt, &run.FinishedAt, &run.Status,
			&run.Fetched, &run.Mapped, &run.Skipped, &run.Upserted, &run.Error,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
