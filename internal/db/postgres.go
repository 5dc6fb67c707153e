// Package db provides database connection helpers.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgresPool creates and verifies a pgxpool connection pool.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}

// Migrate creates the jobs table and its indexes if they do not exist.
// The (title, company) unique constraint backs the API conflict semantics;
// the per-column indexes back filtered and derived-field-sorted queries.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS jobs (
			id                TEXT PRIMARY KEY,
			title             TEXT NOT NULL,
			company           TEXT NOT NULL,
			location          TEXT NOT NULL,
			posting_date      TEXT NOT NULL DEFAULT '',
			job_type          TEXT NOT NULL DEFAULT 'Full-Time',
			tags              TEXT NOT NULL DEFAULT 'General',
			url               TEXT NOT NULL DEFAULT '',
			company_url       TEXT NOT NULL DEFAULT '',
			salary            TEXT NOT NULL DEFAULT 'Not specified',
			salary_numeric    DOUBLE PRECISION NOT NULL DEFAULT 0,
			posting_age_hours DOUBLE PRECISION NOT NULL DEFAULT 'Infinity',
			ingested_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT uq_jobs_title_company UNIQUE (title, company)
		);

		CREATE INDEX IF NOT EXISTS idx_jobs_location          ON jobs(location);
		CREATE INDEX IF NOT EXISTS idx_jobs_job_type          ON jobs(job_type);
		CREATE INDEX IF NOT EXISTS idx_jobs_tags              ON jobs(tags);
		CREATE INDEX IF NOT EXISTS idx_jobs_ingested_at       ON jobs(ingested_at);
		CREATE INDEX IF NOT EXISTS idx_jobs_salary_numeric    ON jobs(salary_numeric);
		CREATE INDEX IF NOT EXISTS idx_jobs_posting_age_hours ON jobs(posting_age_hours);
	`)
	if err != nil {
		return fmt.Errorf("migrate jobs table: %w", err)
	}
	return nil
}
