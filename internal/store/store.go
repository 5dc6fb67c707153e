// Package store persists Job records in PostgreSQL and exposes the
// repository interface the rest of the system depends on.
package store

import (
	"context"
	"errors"

	"actuaryhub/internal/model"
)

var (
	// ErrNotFound is returned when no job exists under the given id.
	ErrNotFound = errors.New("job not found")
	// ErrDuplicate is returned when a write would violate the
	// (title, company) uniqueness constraint under a different id.
	ErrDuplicate = errors.New("a job with the same title and company already exists")
)

// Filters are case-insensitive substring matches, AND-combined. Empty
// fields are ignored.
type Filters struct {
	JobType  string
	Location string
	Tag      string
}

// JobStore is the repository contract. Upsert reports whether the write
// created a new row (true) or replaced an existing one (false).
type JobStore interface {
	Upsert(ctx context.Context, job *model.Job) (created bool, err error)
	Get(ctx context.Context, id string) (*model.Job, error)
	QueryByFilters(ctx context.Context, f Filters) ([]model.Job, error)
	Delete(ctx context.Context, id string) error
}
