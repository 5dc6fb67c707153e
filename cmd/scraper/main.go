// actuaryhub scraper — one-shot scrape-and-ingest run.
//
// Walks PAGES_TO_SCRAPE listing pages, normalises every card and upserts
// the results, then prints the batch report and exits. Intended for manual
// runs and container cron; the server has its own background scheduler.
package main

import (
	"context"
	"log"
	"time"

	"actuaryhub/internal/config"
	"actuaryhub/internal/db"
	"actuaryhub/internal/ingest"
	"actuaryhub/internal/query"
	"actuaryhub/internal/scraper/actuarylist"
	"actuaryhub/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[scraper] Config error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[scraper] PostgreSQL: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("[scraper] Migrate: %v", err)
	}

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[scraper] Redis: %v", err)
	}
	defer rdb.Close()

	jobs := store.NewPostgres(pool)
	svc := query.NewService(jobs, query.NewRedisCache(rdb))

	scraper := actuarylist.New(cfg.ScrapeBaseURL, cfg.PagesToScrape, cfg.Headless)
	log.Printf("[scraper] Scraping %d page(s) from %s", cfg.PagesToScrape, cfg.ScrapeBaseURL)

	cards, err := scraper.FetchCards(ctx)
	if err != nil {
		log.Printf("[scraper] Scrape error: %v — ingesting %d cards collected before failure", err, len(cards))
	}
	if len(cards) == 0 {
		log.Fatal("[scraper] No cards scraped. Exiting.")
	}

	report := ingest.New(jobs, svc).Run(ctx, cards)
	log.Printf("[scraper] Done — inserted=%d updated=%d skipped=%d failed=%d",
		report.Inserted, report.Updated, report.Skipped, report.Failed)
}
