// Package jobparse converts the loosely-structured text fields found on
// listing cards (salary ranges, relative posting dates) into comparable
// numeric values. All parsers degrade to documented sentinel values and
// never return an error.
package jobparse

import (
	"regexp"
	"strconv"
	"strings"
)

var numberRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseSalary extracts a single USD figure from a free-text salary string.
//
// Rules:
//   - empty input or anything containing "not specified" → 0
//   - thousands-separator commas are stripped first
//   - a numeric token immediately followed by k/K is multiplied by 1000
//   - the result is the mean of all tokens, so "$110k-$150k" → 130000
//   - no numeric tokens → 0
func ParseSalary(text string) float64 {
	if text == "" || strings.Contains(strings.ToLower(text), "not specified") {
		return 0
	}

	cleaned := strings.ReplaceAll(text, ",", "")
	matches := numberRegexp.FindAllStringIndex(cleaned, -1)
	if len(matches) == 0 {
		return 0
	}

	var sum float64
	for _, m := range matches {
		val, err := strconv.ParseFloat(cleaned[m[0]:m[1]], 64)
		if err != nil {
			continue
		}
		if m[1] < len(cleaned) && (cleaned[m[1]] == 'k' || cleaned[m[1]] == 'K') {
			val *= 1000
		}
		sum += val
	}

	return sum / float64(len(matches))
}
