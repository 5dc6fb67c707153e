// actuaryhub server — REST API over the scraped jobs table.
//
// Serves:
//   - GET/POST   /jobs       — filtered, sorted listing + creation
//   - GET/PUT/DELETE /jobs/{id}
//   - GET /health
//
// When SCRAPE_INTERVAL_HOURS > 0 a background cron re-scrapes the listing
// pages and upserts them through the ingestion pipeline.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"actuaryhub/internal/api"
	"actuaryhub/internal/config"
	"actuaryhub/internal/db"
	"actuaryhub/internal/ingest"
	"actuaryhub/internal/query"
	"actuaryhub/internal/scheduler"
	"actuaryhub/internal/scraper/actuarylist"
	"actuaryhub/internal/store"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[server] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[server] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[server] PostgreSQL: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("[server] Migrate: %v", err)
	}
	log.Println("[server] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[server] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[server] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[server] Redis connected ✓")

	// ── Services ─────────────────────────────────────────────────────────────
	jobs := store.NewPostgres(pool)
	svc := query.NewService(jobs, query.NewRedisCache(rdb))

	// ── Background re-scrape ─────────────────────────────────────────────────
	var sched *scheduler.Scheduler
	if cfg.ScrapeIntervalHours > 0 {
		scraper := actuarylist.New(cfg.ScrapeBaseURL, cfg.PagesToScrape, cfg.Headless)
		sched = scheduler.New(scraper, ingest.New(jobs, svc), cfg.ScrapeIntervalHours)
		if err := sched.Start(ctx); err != nil {
			log.Fatalf("[server] Scheduler: %v", err)
		}
		defer sched.Stop()
	} else {
		log.Println("[server] SCRAPE_INTERVAL_HOURS=0 — background scraping disabled")
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := api.NewHandler(jobs, svc)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      api.WithRecovery(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[server] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[server] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[server] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] Shutdown error: %v", err)
	}
	log.Println("[server] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "actuaryhub",
		"version": version,
	})
}
