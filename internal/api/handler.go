// Package api implements the HTTP handlers for the jobs REST surface.
//
// Routes:
//
//	GET    /jobs          → list jobs with optional filters and sort
//	POST   /jobs          → create a job
//	GET    /jobs/{id}     → fetch one job
//	PUT    /jobs/{id}     → partial update
//	DELETE /jobs/{id}     → remove a job
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"actuaryhub/internal/model"
	"actuaryhub/internal/normalize"
	"actuaryhub/internal/query"
	"actuaryhub/internal/store"
)

// Handler holds shared dependencies.
type Handler struct {
	store store.JobStore
	query *query.Service
}

// NewHandler returns a configured Handler.
func NewHandler(st store.JobStore, svc *query.Service) *Handler {
	return &Handler{store: st, query: svc}
}

// RegisterRoutes mounts all job routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/jobs", h.handleJobs)
	mux.HandleFunc("/jobs/", h.handleJobByID)
}

// WithRecovery is the outermost request boundary: a panic in any handler is
// logged and answered with a generic internal error instead of escaping.
func WithRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[api] panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				jsonError(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ─── Route dispatch ───────────────────────────────────────────────────────

func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listJobs(w, r)
	case http.MethodPost:
		h.createJob(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleJobByID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/jobs/"), "/")
	if id == "" || strings.Contains(id, "/") {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getJob(w, r, id)
	case http.MethodPut:
		h.updateJob(w, r, id)
	case http.MethodDelete:
		h.deleteJob(w, r, id)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ─── Individual handlers ──────────────────────────────────────────────────

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := store.Filters{
		JobType:  q.Get("job_type"),
		Location: q.Get("location"),
		Tag:      q.Get("tag"),
	}

	jobs, err := h.query.List(r.Context(), filters, query.ParseSort(q.Get("sort")))
	if err != nil {
		log.Printf("[api] listJobs: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}
	jsonOK(w, http.StatusOK, jobs)
}

// jobRequest is the create/update body. Pointer fields distinguish absent
// from explicitly empty on partial updates.
type jobRequest struct {
	Title       *string `json:"title"`
	Company     *string `json:"company"`
	Location    *string `json:"location"`
	PostingDate *string `json:"posting_date"`
	JobType     *string `json:"job_type"`
	Tags        *string `json:"tags"`
	URL         *string `json:"url"`
	CompanyURL  *string `json:"company_url"`
	Salary      *string `json:"salary"`
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	var body jobRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	title := deref(body.Title)
	company := deref(body.Company)
	location := deref(body.Location)
	if title == "" || company == "" || location == "" {
		jsonError(w, "missing required fields: title, company, and location are required", http.StatusBadRequest)
		return
	}

	tags := deref(body.Tags)
	if tags == "" {
		tags = "General"
	}

	jobType := normalize.ClassifyJobType(strings.Split(tags, ","))
	if body.JobType != nil {
		parsed, err := model.ParseJobType(*body.JobType)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		jobType = parsed
	}

	postingDate := deref(body.PostingDate)
	if postingDate == "" {
		postingDate = "Recently posted"
	}
	salary := deref(body.Salary)
	if salary == "" {
		salary = "Not specified"
	}

	job := model.Job{
		ID:              uuid.NewString(),
		Title:           title,
		Company:         company,
		Location:        location,
		PostingDateText: postingDate,
		JobType:         jobType,
		Tags:            tags,
		URL:             deref(body.URL),
		CompanyURL:      deref(body.CompanyURL),
		SalaryText:      salary,
		IngestedAt:      time.Now().UTC(),
	}
	normalize.Derive(&job, job.IngestedAt)

	if _, err := h.store.Upsert(r.Context(), &job); err != nil {
		h.writeError(w, "createJob", err)
		return
	}
	h.query.InvalidateCache(r.Context())
	jsonOK(w, http.StatusCreated, job)
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request, id string) {
	job, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, "getJob", err)
		return
	}
	jsonOK(w, http.StatusOK, job)
}

func (h *Handler) updateJob(w http.ResponseWriter, r *http.Request, id string) {
	job, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, "updateJob", err)
		return
	}

	var body jobRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	// Required fields may be replaced but never blanked.
	for name, field := range map[string]*string{
		"title": body.Title, "company": body.Company, "location": body.Location,
	} {
		if field != nil && strings.TrimSpace(*field) == "" {
			jsonError(w, name+" cannot be empty", http.StatusBadRequest)
			return
		}
	}

	if body.Title != nil {
		job.Title = strings.TrimSpace(*body.Title)
	}
	if body.Company != nil {
		job.Company = strings.TrimSpace(*body.Company)
	}
	if body.Location != nil {
		job.Location = strings.TrimSpace(*body.Location)
	}
	if body.Tags != nil {
		job.Tags = *body.Tags
	}
	if body.URL != nil {
		job.URL = strings.TrimSpace(*body.URL)
	}
	if body.CompanyURL != nil {
		job.CompanyURL = strings.TrimSpace(*body.CompanyURL)
	}
	if body.JobType != nil {
		parsed, err := model.ParseJobType(*body.JobType)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		job.JobType = parsed
	}

	now := time.Now().UTC()
	if body.Salary != nil {
		job.SalaryText = strings.TrimSpace(*body.Salary)
	}
	if body.PostingDate != nil {
		job.PostingDateText = strings.TrimSpace(*body.PostingDate)
	}
	// Derived fields always follow their source text.
	normalize.Derive(job, now)
	job.IngestedAt = now

	if _, err := h.store.Upsert(r.Context(), job); err != nil {
		h.writeError(w, "updateJob", err)
		return
	}
	h.query.InvalidateCache(r.Context())
	jsonOK(w, http.StatusOK, job)
}

func (h *Handler) deleteJob(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeError(w, "deleteJob", err)
		return
	}
	h.query.InvalidateCache(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ─── Helpers ──────────────────────────────────────────────────────────────

// writeError maps store errors to response codes: not-found → 404,
// duplicate (title, company) → 409, anything else → generic 500.
func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, "job not found", http.StatusNotFound)
	case errors.Is(err, store.ErrDuplicate):
		jsonError(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("[api] %s: %v", op, err)
		jsonError(w, "database error", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[api] encode response: %v", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
