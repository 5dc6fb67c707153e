// Package model defines the shared data structures for actuaryhub.
package model

import (
	"fmt"
	"time"
)

// JobType values mirror the job_type column in PostgreSQL.
type JobType string

const (
	TypeFullTime   JobType = "Full-Time"
	TypePartTime   JobType = "Part-Time"
	TypeContract   JobType = "Contract"
	TypeInternship JobType = "Internship"
)

// ParseJobType converts a raw string to a JobType, returning an error for
// unknown values.
func ParseJobType(s string) (JobType, error) {
	jt := JobType(s)
	switch jt {
	case TypeFullTime, TypePartTime, TypeContract, TypeInternship:
		return jt, nil
	}
	return "", fmt.Errorf("unknown job type %q", s)
}

// Job is one normalised listing, one row in the jobs table.
//
// SalaryNumeric and PostingAgeHours are derived from SalaryText and
// PostingDateText at write time and never set directly; they exist for
// sorting/filtering and are not part of the API JSON shape.
type Job struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	PostingDateText string    `json:"posting_date"`
	JobType         JobType   `json:"job_type"`
	Tags            string    `json:"tags"`
	URL             string    `json:"url"`
	CompanyURL      string    `json:"company_url"`
	SalaryText      string    `json:"salary"`
	IngestedAt      time.Time `json:"ingested_at"`

	SalaryNumeric   float64 `json:"-"`
	PostingAgeHours float64 `json:"-"`
}

// RawCard is one scraped listing card before normalisation — the extraction
// contract between the browser driver and the rest of the system. Every
// field is verbatim page text; the normaliser owns all cleanup.
type RawCard struct {
	Title       string
	Company     string
	Country     string
	Cities      []string
	HasLocation bool // false when the card had no locations container at all
	DateText    string
	SalaryText  string
	Tags        []string
	JobURL      string
	CompanyURL  string
}
