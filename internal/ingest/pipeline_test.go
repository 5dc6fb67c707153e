package ingest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actuaryhub/internal/ingest"
	"actuaryhub/internal/model"
	"actuaryhub/internal/store"
)

func card(id, title, company string) model.RawCard {
	return model.RawCard{
		Title:       title,
		Company:     company,
		Country:     "USA",
		HasLocation: true,
		DateText:    "22h ago",
		SalaryText:  "$100k",
		Tags:        []string{"Pricing"},
		JobURL:      "https://www.actuarylist.com/actuarial-jobs/" + id + "-role",
	}
}

func TestRun_PartialSuccess(t *testing.T) {
	m := store.NewMemory()
	p := ingest.New(m, nil)

	// Pre-existing row that will collide on (title, company) with a
	// different id mid-batch.
	_, err := m.Upsert(context.Background(), &model.Job{ID: "999", Title: "Pricing Actuary", Company: "Clash Co"})
	require.NoError(t, err)

	cards := []model.RawCard{
		card("1", "Senior Actuary", "Acme"),
		card("2", "Pricing Actuary", "Clash Co"), // storage conflict
		{Title: "", Company: "NoTitle Inc"},      // normaliser skip
		card("3", "Life Actuary", "Beta"),
	}

	report := p.Run(context.Background(), cards)

	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 1, report.Failed, "cross-key title+company collision fails that record only")
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 4, report.Total())

	// Records after the failed one must still land.
	got, err := m.Get(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Life Actuary", got.Title)
}

func TestRun_ReingestUpdatesInPlace(t *testing.T) {
	m := store.NewMemory()
	p := ingest.New(m, nil)
	ctx := context.Background()

	first := p.Run(ctx, []model.RawCard{card("42", "Actuary", "Acme")})
	assert.Equal(t, 1, first.Inserted)

	again := card("42", "Actuary", "Acme")
	again.SalaryText = "$120k-$150k"
	second := p.Run(ctx, []model.RawCard{again})
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 1, second.Updated)

	got, err := m.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, 135000.0, got.SalaryNumeric, "derived salary recomputed on re-ingest")

	jobs, err := m.QueryByFilters(ctx, store.Filters{})
	require.NoError(t, err)
	assert.Len(t, jobs, 1, "no duplicate rows after re-ingest")
}
