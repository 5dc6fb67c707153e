package store_test

import (
	"context"
	"errors"
	"testing"

	"actuaryhub/internal/model"
	"actuaryhub/internal/store"
)

func TestMemory_UpsertIsIdempotentByID(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	created, err := m.Upsert(ctx, &model.Job{ID: "1", Title: "Actuary", Company: "Acme", SalaryText: "$100k", SalaryNumeric: 100000})
	if err != nil || !created {
		t.Fatalf("first upsert: created=%v err=%v", created, err)
	}

	created, err = m.Upsert(ctx, &model.Job{ID: "1", Title: "Actuary", Company: "Acme", SalaryText: "$120k", SalaryNumeric: 120000})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Error("second upsert of same id must report update, not create")
	}

	got, err := m.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SalaryNumeric != 120000 {
		t.Errorf("salary_numeric = %v, want 120000 (latest write wins)", got.SalaryNumeric)
	}

	jobs, _ := m.QueryByFilters(ctx, store.Filters{})
	if len(jobs) != 1 {
		t.Errorf("expected 1 row after re-upsert, got %d", len(jobs))
	}
}

func TestMemory_TitleCompanyConflict(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	if _, err := m.Upsert(ctx, &model.Job{ID: "1", Title: "Actuary", Company: "Acme", Location: "USA"}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	_, err := m.Upsert(ctx, &model.Job{ID: "2", Title: "Actuary", Company: "Acme", Location: "UK"})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// The first record must remain unmodified.
	got, err := m.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Location != "USA" {
		t.Errorf("first record was modified by the failed write: %q", got.Location)
	}
	if _, err := m.Get(ctx, "2"); !errors.Is(err, store.ErrNotFound) {
		t.Error("conflicting record must not be persisted")
	}
}

func TestMemory_DeleteSemantics(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	if err := m.Delete(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("deleting a nonexistent id: got %v, want ErrNotFound", err)
	}

	m.Upsert(ctx, &model.Job{ID: "1", Title: "Actuary", Company: "Acme"})
	if err := m.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.Get(ctx, "1"); !errors.Is(err, store.ErrNotFound) {
		t.Error("get after delete must return ErrNotFound")
	}
}

func TestMemory_FiltersAreCaseInsensitiveAndCombined(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	m.Upsert(ctx, &model.Job{ID: "1", Title: "A", Company: "C1", Location: "USA, New York", JobType: model.TypeFullTime, Tags: "Pricing, Life"})
	m.Upsert(ctx, &model.Job{ID: "2", Title: "B", Company: "C2", Location: "Germany, Berlin", JobType: model.TypeContract, Tags: "Health"})

	jobs, _ := m.QueryByFilters(ctx, store.Filters{Location: "new york", Tag: "pricing"})
	if len(jobs) != 1 || jobs[0].ID != "1" {
		t.Errorf("AND-combined case-insensitive filters failed: %+v", jobs)
	}

	jobs, _ = m.QueryByFilters(ctx, store.Filters{JobType: "contract", Location: "usa"})
	if len(jobs) != 0 {
		t.Errorf("filters must be AND-combined, got %+v", jobs)
	}
}
