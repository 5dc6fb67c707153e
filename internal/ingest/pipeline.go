// Package ingest drives the scrape-to-record pipeline: normalise each raw
// card, upsert it, and keep going — one bad record never aborts the batch.
package ingest

import (
	"context"
	"log"
	"time"

	"actuaryhub/internal/model"
	"actuaryhub/internal/normalize"
	"actuaryhub/internal/query"
	"actuaryhub/internal/store"
)

// Report aggregates the per-record outcomes of one ingestion batch.
type Report struct {
	Inserted int
	Updated  int
	Skipped  int // dropped by the normaliser (missing required field)
	Failed   int // rejected by storage (constraint violation etc.)
}

// Total is the number of cards the batch processed.
func (r Report) Total() int {
	return r.Inserted + r.Updated + r.Skipped + r.Failed
}

// Pipeline ingests raw cards into the store.
type Pipeline struct {
	store store.JobStore
	query *query.Service
}

// New constructs a Pipeline. svc may be nil when no cache invalidation is
// wanted (tests, one-shot runs without redis).
func New(st store.JobStore, svc *query.Service) *Pipeline {
	return &Pipeline{store: st, query: svc}
}

// Run processes every card in the batch. Each record has its own failure
// boundary: normaliser skips and storage rejections are logged and counted,
// then the loop moves on. The cache is invalidated once after the batch.
func (p *Pipeline) Run(ctx context.Context, cards []model.RawCard) Report {
	var report Report
	now := time.Now().UTC()

	for _, card := range cards {
		job, err := normalize.Card(card, now)
		if err != nil {
			log.Printf("[ingest] Skipping card (%q at %q): %v", card.Title, card.Company, err)
			report.Skipped++
			continue
		}

		created, err := p.store.Upsert(ctx, &job)
		switch {
		case err != nil:
			log.Printf("[ingest] Upsert failed for job %s: %v — continuing", job.ID, err)
			report.Failed++
		case created:
			report.Inserted++
		default:
			report.Updated++
		}
	}

	if p.query != nil && report.Inserted+report.Updated > 0 {
		p.query.InvalidateCache(ctx)
	}

	log.Printf("[ingest] Batch done — inserted=%d updated=%d skipped=%d failed=%d",
		report.Inserted, report.Updated, report.Skipped, report.Failed)
	return report
}
