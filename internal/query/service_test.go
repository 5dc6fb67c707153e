package query_test

import (
	"context"
	"math"
	"testing"
	"time"

	"actuaryhub/internal/model"
	"actuaryhub/internal/query"
	"actuaryhub/internal/store"
)

var base = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func seedStore(t *testing.T) *store.Memory {
	t.Helper()
	m := store.NewMemory()
	ctx := context.Background()

	seed := []model.Job{
		{ID: "1", Title: "Pricing Actuary", Company: "A", Location: "USA", PostingAgeHours: 22, SalaryNumeric: 135000, IngestedAt: base},
		{ID: "2", Title: "Health Actuary", Company: "B", Location: "UK", PostingAgeHours: 504, SalaryNumeric: 90000, IngestedAt: base.Add(-time.Hour)},
		{ID: "3", Title: "Life Actuary", Company: "C", Location: "USA", PostingAgeHours: 0, SalaryNumeric: 0, IngestedAt: base.Add(-2 * time.Hour)},
		{ID: "4", Title: "Intern", Company: "D", Location: "Remote", PostingAgeHours: math.Inf(1), SalaryNumeric: 60000, IngestedAt: base.Add(-3 * time.Hour)},
	}
	for i := range seed {
		if _, err := m.Upsert(ctx, &seed[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return m
}

func ids(jobs []model.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestList_SortOrders(t *testing.T) {
	svc := query.NewService(seedStore(t), nil)
	ctx := context.Background()

	cases := []struct {
		sort query.Sort
		want []string
	}{
		// Unknown age (+Inf) sorts as oldest under newest-first.
		{query.SortNewest, []string{"3", "1", "2", "4"}},
		{query.SortOldest, []string{"4", "2", "1", "3"}},
		// Unspecified salaries (0) land last on salary_high.
		{query.SortSalaryHigh, []string{"1", "2", "4", "3"}},
		{query.SortSalaryLow, []string{"3", "4", "2", "1"}},
		// Default: most recently ingested first.
		{query.SortDefault, []string{"1", "2", "3", "4"}},
	}

	for _, c := range cases {
		jobs, err := svc.List(ctx, store.Filters{}, c.sort)
		if err != nil {
			t.Fatalf("List(%q): %v", c.sort, err)
		}
		got := ids(jobs)
		if len(got) != len(c.want) {
			t.Fatalf("List(%q) returned %d jobs, want %d", c.sort, len(got), len(c.want))
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("List(%q) order = %v, want %v", c.sort, got, c.want)
				break
			}
		}
	}
}

func TestList_NewestTieBreaksOnIngestion(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	m.Upsert(ctx, &model.Job{ID: "old", Title: "A", Company: "A", PostingAgeHours: 5, IngestedAt: base.Add(-time.Hour)})
	m.Upsert(ctx, &model.Job{ID: "new", Title: "B", Company: "B", PostingAgeHours: 5, IngestedAt: base})

	jobs, err := query.NewService(m, nil).List(ctx, store.Filters{}, query.SortNewest)
	if err != nil {
		t.Fatal(err)
	}
	if jobs[0].ID != "new" {
		t.Errorf("equal ages must tie-break on descending ingested_at, got %v", ids(jobs))
	}
}

func TestParseSort(t *testing.T) {
	if got := query.ParseSort("salary_high"); got != query.SortSalaryHigh {
		t.Errorf("ParseSort(salary_high) = %q", got)
	}
	if got := query.ParseSort("bogus"); got != query.SortDefault {
		t.Errorf("unknown sort must fall back to default, got %q", got)
	}
	if got := query.ParseSort(""); got != query.SortDefault {
		t.Errorf("empty sort must fall back to default, got %q", got)
	}
}

// fakeCache records hits and serves whatever was last set, ignoring TTL.
type fakeCache struct {
	data        map[string][]byte
	invalidated int
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string][]byte)} }

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	payload, ok := f.data[key]
	return payload, ok
}
func (f *fakeCache) Set(_ context.Context, key string, payload []byte) {
	f.data[key] = payload
}

func (f *fakeCache) Invalidate(_ context.Context) {
	f.data = map[string][]byte{}
	f.invalidated++
}

func TestList_ServesFromCacheUntilInvalidated(t *testing.T) {
	m := seedStore(t)
	cache := newFakeCache()
	svc := query.NewService(m, cache)
	ctx := context.Background()

	first, err := svc.List(ctx, store.Filters{Location: "usa"}, query.SortNewest)
	if err != nil {
		t.Fatal(err)
	}

	// A write bypassing invalidation is still served stale from cache.
	m.Upsert(ctx, &model.Job{ID: "5", Title: "New", Company: "E", Location: "USA", PostingAgeHours: 1, IngestedAt: base})
	cached, err := svc.List(ctx, store.Filters{Location: "usa"}, query.SortNewest)
	if err != nil {
		t.Fatal(err)
	}
	if len(cached) != len(first) {
		t.Errorf("expected stale cached result of %d jobs, got %d", len(first), len(cached))
	}

	svc.InvalidateCache(ctx)
	fresh, err := svc.List(ctx, store.Filters{Location: "usa"}, query.SortNewest)
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh) != len(first)+1 {
		t.Errorf("expected fresh result after invalidation, got %d jobs", len(fresh))
	}
	if cache.invalidated != 1 {
		t.Errorf("invalidate count = %d, want 1", cache.invalidated)
	}
}
