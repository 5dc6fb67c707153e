package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"actuaryhub/internal/model"
)

const jobColumns = `id, title, company, location, posting_date, job_type, tags,
	url, company_url, salary, salary_numeric, posting_age_hours, ingested_at`

// Postgres implements JobStore on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Upsert inserts the job or, when the id already exists, replaces every
// non-key field. A (title, company) collision with a different id maps to
// ErrDuplicate; the storage constraint is the sole guard against that race.
func (s *Postgres) Upsert(ctx context.Context, job *model.Job) (bool, error) {
	// xmax = 0 only holds for freshly inserted rows, which distinguishes
	// insert from update without a second round trip.
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			title             = EXCLUDED.title,
			company           = EXCLUDED.company,
			location          = EXCLUDED.location,
			posting_date      = EXCLUDED.posting_date,
			job_type          = EXCLUDED.job_type,
			tags              = EXCLUDED.tags,
			url               = EXCLUDED.url,
			company_url       = EXCLUDED.company_url,
			salary            = EXCLUDED.salary,
			salary_numeric    = EXCLUDED.salary_numeric,
			posting_age_hours = EXCLUDED.posting_age_hours,
			ingested_at       = EXCLUDED.ingested_at
		RETURNING (xmax = 0)`

	var created bool
	err := s.pool.QueryRow(ctx, query,
		job.ID, job.Title, job.Company, job.Location, job.PostingDateText,
		string(job.JobType), job.Tags, job.URL, job.CompanyURL,
		job.SalaryText, job.SalaryNumeric, job.PostingAgeHours, job.IngestedAt,
	).Scan(&created)
	if err != nil {
		if isUniqueViolation(err) {
			return false, ErrDuplicate
		}
		return false, fmt.Errorf("upsert job %s: %w", job.ID, err)
	}
	return created, nil
}

// Get retrieves a job by id.
func (s *Postgres) Get(ctx context.Context, id string) (*model.Job, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return job, nil
}

// QueryByFilters returns all jobs matching the provided filters. Ordering
// is left to the query service.
func (s *Postgres) QueryByFilters(ctx context.Context, f Filters) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	var (
		clauses []string
		args    []any
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s ILIKE '%%' || $%d || '%%'", column, len(args)))
	}
	add("job_type", f.JobType)
	add("location", f.Location)
	add("tags", f.Tag)

	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// Delete removes a job, returning ErrNotFound when nothing matched.
func (s *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (*model.Job, error) {
	var (
		job     model.Job
		jobType string
	)
	if err := row.Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &job.PostingDateText,
		&jobType, &job.Tags, &job.URL, &job.CompanyURL,
		&job.SalaryText, &job.SalaryNumeric, &job.PostingAgeHours, &job.IngestedAt,
	); err != nil {
		return nil, err
	}
	job.JobType = model.JobType(jobType)
	return &job, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_jobs_title_company"
}
