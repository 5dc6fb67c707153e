package store

import (
	"context"
	"strings"
	"sync"

	"actuaryhub/internal/model"
)

// Memory is an in-memory JobStore enforcing the same key and uniqueness
// semantics as the Postgres implementation. It backs the unit tests of
// every consumer of the repository interface.
type Memory struct {
	mu   sync.Mutex
	jobs map[string]model.Job
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{jobs: make(map[string]model.Job)}
}

func (m *Memory) Upsert(_ context.Context, job *model.Job) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, existing := range m.jobs {
		if id != job.ID && existing.Title == job.Title && existing.Company == job.Company {
			return false, ErrDuplicate
		}
	}

	_, exists := m.jobs[job.ID]
	m.jobs[job.ID] = *job
	return !exists, nil
}

func (m *Memory) Get(_ context.Context, id string) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &job, nil
}

func (m *Memory) QueryByFilters(_ context.Context, f Filters) ([]model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	jobs := make([]model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if matches(string(job.JobType), f.JobType) &&
			matches(job.Location, f.Location) &&
			matches(job.Tags, f.Tag) {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(m.jobs, id)
	return nil
}

// matches mirrors the ILIKE '%filter%' semantics of the Postgres store.
func matches(value, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(filter))
}
