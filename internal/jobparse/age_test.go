package jobparse_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"actuaryhub/internal/jobparse"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestParsePostingAge_RelativeUnits(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"22h ago", 22},
		{"1h ago", 1},
		{"3d ago", 72},
		{"3w ago", 504},
		{"2w", 336},
		{"2 hours ago", 2},
		{"an hour ago", 1},
		{"1 hr ago", 1},
		{"5 days ago", 120},
		{"yesterday", 24},
		{"2 weeks ago", 336},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, jobparse.ParsePostingAge(c.text, now), "text %q", c.text)
	}
}

func TestParsePostingAge_Sentinels(t *testing.T) {
	assert.True(t, math.IsInf(jobparse.ParsePostingAge("", now), 1))
	assert.True(t, math.IsInf(jobparse.ParsePostingAge("soon™", now), 1))
	assert.Equal(t, 0.0, jobparse.ParsePostingAge("Recently posted", now))
	assert.Equal(t, 0.0, jobparse.ParsePostingAge("just now", now))
}

func TestParsePostingAge_CalendarDates(t *testing.T) {
	// 2025-06-05 00:00 UTC is 10.5 days before now
	assert.Equal(t, 252.0, jobparse.ParsePostingAge("2025-06-05", now))

	// Future date clamps to the finite sentinel, not +Inf.
	got := jobparse.ParsePostingAge("2025-07-01", now)
	assert.Equal(t, jobparse.FutureAgeHours, got)
	assert.False(t, math.IsInf(got, 1))
}

// Unknown ages must sort after the future sentinel, which in turn sorts
// after every real age.
func TestParsePostingAge_SentinelOrdering(t *testing.T) {
	known := jobparse.ParsePostingAge("3w ago", now)
	future := jobparse.ParsePostingAge("2030-01-01", now)
	unknown := jobparse.ParsePostingAge("whenever", now)

	assert.Less(t, known, future)
	assert.Less(t, future, unknown)
}
