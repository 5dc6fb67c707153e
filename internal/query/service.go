// Package query translates filter/sort parameters into storage queries and
// orders the results by the derived numeric fields.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"actuaryhub/internal/model"
	"actuaryhub/internal/store"
)

// Sort selects the result ordering.
type Sort string

const (
	// SortDefault orders by descending ingestion time.
	SortDefault    Sort = ""
	SortNewest     Sort = "newest"
	SortOldest     Sort = "oldest"
	SortSalaryHigh Sort = "salary_high"
	SortSalaryLow  Sort = "salary_low"
)

// ParseSort maps a request parameter to a Sort; empty and unrecognized
// values fall back to the default ordering.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortNewest, SortOldest, SortSalaryHigh, SortSalaryLow:
		return Sort(s)
	}
	return SortDefault
}

// Service runs filtered, sorted job queries with a short-lived result
// cache in front of the store.
type Service struct {
	store store.JobStore
	cache Cache // nil disables caching
}

// NewService constructs a Service. cache may be nil.
func NewService(st store.JobStore, cache Cache) *Service {
	return &Service{store: st, cache: cache}
}

// List returns jobs matching f ordered by sortKey. Results for a distinct
// filter+sort combination are served from cache within the cache window.
func (s *Service) List(ctx context.Context, f store.Filters, sortKey Sort) ([]model.Job, error) {
	key := cacheKey(f, sortKey)

	// Cached payloads are pre-sorted and carry only the serializable
	// fields; the derived numerics are not needed after ordering.
	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, key); ok {
			var jobs []model.Job
			if err := json.Unmarshal(payload, &jobs); err == nil {
				return jobs, nil
			}
		}
	}

	jobs, err := s.store.QueryByFilters(ctx, f)
	if err != nil {
		return nil, err
	}
	sortJobs(jobs, sortKey)

	if s.cache != nil {
		if payload, err := json.Marshal(jobs); err == nil {
			s.cache.Set(ctx, key, payload)
		}
	}
	return jobs, nil
}

// InvalidateCache drops all cached results. Called after every write.
func (s *Service) InvalidateCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

// sortJobs orders jobs in place. Comparisons run over the derived numeric
// fields, not the raw text ones.
func sortJobs(jobs []model.Job, sortKey Sort) {
	switch sortKey {
	case SortNewest:
		// Ascending age; ties broken by most recently ingested first.
		sort.SliceStable(jobs, func(i, j int) bool {
			if jobs[i].PostingAgeHours != jobs[j].PostingAgeHours {
				return jobs[i].PostingAgeHours < jobs[j].PostingAgeHours
			}
			return jobs[i].IngestedAt.After(jobs[j].IngestedAt)
		})
	case SortOldest:
		sort.SliceStable(jobs, func(i, j int) bool {
			return jobs[i].PostingAgeHours > jobs[j].PostingAgeHours
		})
	case SortSalaryHigh:
		// Unspecified salaries (0) land last.
		sort.SliceStable(jobs, func(i, j int) bool {
			return jobs[i].SalaryNumeric > jobs[j].SalaryNumeric
		})
	case SortSalaryLow:
		sort.SliceStable(jobs, func(i, j int) bool {
			return jobs[i].SalaryNumeric < jobs[j].SalaryNumeric
		})
	default:
		sort.SliceStable(jobs, func(i, j int) bool {
			return jobs[i].IngestedAt.After(jobs[j].IngestedAt)
		})
	}
}

func cacheKey(f store.Filters, sortKey Sort) string {
	return fmt.Sprintf("%s|%s|%s|%s", f.JobType, f.Location, f.Tag, sortKey)
}
