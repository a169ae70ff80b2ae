package verify

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// dateLayouts are the ISO-like shapes accepted for claim dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"2006",
}

// parseDate parses an ISO-like date string. Times with an offset are
// normalized to UTC before the year is read.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// textYear returns the first 19xx/20xx year in s, or NaN.
func textYear(s string) float64 {
	m := yearPattern.FindString(s)
	if m == "" {
		return math.NaN()
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return math.NaN()
	}
	return float64(y)
}

// claimYear reads the year from the claim date when present, else from the
// value parsed as a date.
func claimYear(date, value string) float64 {
	src := value
	if strings.TrimSpace(date) != "" {
		src = date
	}
	t, ok := parseDate(src)
	if !ok {
		return math.NaN()
	}
	return float64(t.Year())
}

// YearOf exposes the claim-year rule for callers that need it outside a comparison.
func YearOf(date string, value any) (int, bool) {
	y := claimYear(date, NewValue(value).String())
	if math.IsNaN(y) {
		return 0, false
	}
	return int(y), true
}
