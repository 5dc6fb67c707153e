package jobparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// FutureAgeHours is the sentinel for postings dated in the future. It is
// finite so it sorts after every real age but stays distinguishable from
// UnknownAge.
const FutureAgeHours = 999999.0

// UnknownAge marks a posting date that could not be interpreted at all.
// +Inf sorts as oldest in newest-first ordering.
var UnknownAge = math.Inf(1)

var (
	leadingHoursRegexp = regexp.MustCompile(`^(\d+)h`)
	leadingDaysRegexp  = regexp.MustCompile(`^(\d+)d`)
	leadingWeeksRegexp = regexp.MustCompile(`^(\d+)w`)
	firstIntRegexp     = regexp.MustCompile(`\d+`)
)

// ParsePostingAge converts a posting-date string ("22h ago", "3w ago",
// "2024-01-05", "Recently posted") into hours elapsed since posting,
// evaluated against now. First matching rule wins:
//
//  1. empty → UnknownAge
//  2. "recent" / "just now" → 0
//  3. leading <int>h / <int>d / <int>w → hours / days / weeks
//  4. worded units ("hour"/"hr", "day", "week") with the first integer
//     found, defaulting to 1
//  5. a full calendar date (flexible formats, normalised to UTC); a
//     future date clamps to FutureAgeHours
//  6. anything else → UnknownAge
func ParsePostingAge(text string, now time.Time) float64 {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return UnknownAge
	}

	if strings.Contains(s, "recent") || strings.Contains(s, "just now") {
		return 0
	}

	if m := leadingHoursRegexp.FindStringSubmatch(s); m != nil {
		return mustFloat(m[1])
	}
	if m := leadingDaysRegexp.FindStringSubmatch(s); m != nil {
		return mustFloat(m[1]) * 24
	}
	if m := leadingWeeksRegexp.FindStringSubmatch(s); m != nil {
		return mustFloat(m[1]) * 24 * 7
	}

	switch {
	case strings.Contains(s, "hour"), strings.Contains(s, "hr"):
		return firstInt(s)
	case strings.Contains(s, "day"):
		return firstInt(s) * 24
	case strings.Contains(s, "week"):
		return firstInt(s) * 24 * 7
	}

	if parsed, err := dateparse.ParseIn(strings.TrimSpace(text), time.UTC); err == nil {
		age := now.UTC().Sub(parsed.UTC()).Hours()
		if age < 0 {
			return FutureAgeHours
		}
		return age
	}

	return UnknownAge
}

// firstInt extracts the first integer in s, defaulting to 1.
func firstInt(s string) float64 {
	if m := firstIntRegexp.FindString(s); m != "" {
		return mustFloat(m)
	}
	return 1
}

func mustFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
