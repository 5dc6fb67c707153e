// Package normalize builds canonical Job records from raw scraped cards.
//
// Cards missing a required field after cleanup are rejected with a typed
// skip error — they are never partially saved.
package normalize

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"actuaryhub/internal/jobparse"
	"actuaryhub/internal/model"
)

// Skip reasons: the card is discarded, logged and counted, not persisted.
var (
	ErrMissingTitle    = errors.New("missing title")
	ErrMissingCompany  = errors.New("missing company")
	ErrMissingLocation = errors.New("missing location")
	ErrMissingID       = errors.New("no numeric id in listing URL")
)

var (
	featuredRegexp = regexp.MustCompile(`(?i)^(FEATURED|NEW)\s*`)
	jobIDRegexp    = regexp.MustCompile(`/actuarial-jobs/(\d+)`)
)

// Card converts one raw scraped card into a canonical Job. The derived
// numeric fields are computed against now, which also becomes IngestedAt.
func Card(raw model.RawCard, now time.Time) (model.Job, error) {
	title := strings.TrimSpace(featuredRegexp.ReplaceAllString(stripLeadingSymbols(raw.Title), ""))
	if title == "" {
		return model.Job{}, ErrMissingTitle
	}

	company := strings.TrimSpace(raw.Company)
	if company == "" {
		return model.Job{}, ErrMissingCompany
	}

	location := buildLocation(raw)
	if location == "" {
		return model.Job{}, ErrMissingLocation
	}

	id := extractID(raw.JobURL)
	if id == "" {
		return model.Job{}, ErrMissingID
	}

	dateText := strings.TrimSpace(raw.DateText)
	if dateText == "" {
		dateText = "Recently posted"
	}

	salaryText := strings.TrimSpace(strings.ReplaceAll(raw.SalaryText, "💰", ""))
	if salaryText == "" {
		salaryText = "Not specified"
	}

	tags := joinTags(raw.Tags)

	return model.Job{
		ID:              id,
		Title:           title,
		Company:         company,
		Location:        location,
		PostingDateText: dateText,
		JobType:         ClassifyJobType(raw.Tags),
		Tags:            tags,
		URL:             raw.JobURL,
		CompanyURL:      raw.CompanyURL,
		SalaryText:      salaryText,
		SalaryNumeric:   jobparse.ParseSalary(salaryText),
		PostingAgeHours: jobparse.ParsePostingAge(dateText, now),
		IngestedAt:      now,
	}, nil
}

// Derive recomputes the fields that depend on the text fields. Used by the
// API paths where a Job is built from a request body rather than a card.
func Derive(job *model.Job, now time.Time) {
	job.SalaryNumeric = jobparse.ParseSalary(job.SalaryText)
	job.PostingAgeHours = jobparse.ParsePostingAge(job.PostingDateText, now)
}

// buildLocation joins country and cities with ", ". A card without any
// locations container falls back to "Remote"; a container that yielded no
// usable fragments yields "" and the card is skipped.
func buildLocation(raw model.RawCard) string {
	if !raw.HasLocation {
		return "Remote"
	}

	var parts []string
	if country := stripLeadingSymbols(raw.Country); country != "" {
		parts = append(parts, country)
	}
	for _, city := range raw.Cities {
		if c := stripLeadingSymbols(city); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, ", ")
}

func joinTags(tags []string) string {
	var kept []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return "General"
	}
	return strings.Join(kept, ", ")
}

// ClassifyJobType scans the folded tag string for type markers in priority
// order: Internship > Contract > Part-Time > default Full-Time.
func ClassifyJobType(tags []string) model.JobType {
	folded := foldText(strings.Join(tags, ","))
	switch {
	case strings.Contains(folded, "intern"):
		return model.TypeInternship
	case strings.Contains(folded, "contract"):
		return model.TypeContract
	case strings.Contains(folded, "part-time"), strings.Contains(folded, "part time"):
		return model.TypePartTime
	default:
		return model.TypeFullTime
	}
}

// stripLeadingSymbols removes a leading run of non-word characters (flag
// emoji and similar) while preserving letters, digits and underscores.
func stripLeadingSymbols(s string) string {
	return strings.TrimSpace(strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	}))
}

// extractID pulls the numeric path segment out of a listing URL.
func extractID(jobURL string) string {
	if m := jobIDRegexp.FindStringSubmatch(jobURL); m != nil {
		return m[1]
	}
	return ""
}

// foldText lower-cases s with diacritics removed, so tag matching is not
// tripped up by accented variants.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
