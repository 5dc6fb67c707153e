// Package scheduler wires up the cron job that periodically re-scrapes the
// listing pages and feeds them through the ingestion pipeline.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"actuaryhub/internal/ingest"
	"actuaryhub/internal/scraper/actuarylist"
)

// Scheduler wraps robfig/cron and manages the scrape loop.
type Scheduler struct {
	cron     *cron.Cron
	scraper  *actuarylist.Scraper
	pipeline *ingest.Pipeline
	spec     string // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(scraper *actuarylist.Scraper, pipeline *ingest.Pipeline, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		scraper:  scraper,
		pipeline: pipeline,
		spec:     fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one scrape
// immediately so the table is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runScrape(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.runScrape(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

func (s *Scheduler) runScrape(ctx context.Context) {
	log.Println("[scheduler] Scrape cycle started")

	cards, err := s.scraper.FetchCards(ctx)
	if err != nil {
		log.Printf("[scheduler] Scrape error: %v — ingesting %d cards collected before failure", err, len(cards))
	}
	if len(cards) == 0 {
		log.Println("[scheduler] No cards scraped — nothing to ingest")
		return
	}

	report := s.pipeline.Run(ctx, cards)
	log.Printf("[scheduler] Scrape cycle complete — %d cards processed", report.Total())
}
