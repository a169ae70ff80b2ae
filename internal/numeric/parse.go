// Package numeric extracts candidate numeric readings from free-form text.
//
// Every function here is pure and total: malformed input yields nil or NaN,
// never an error or a panic.
package numeric

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	abbrPattern  = regexp.MustCompile(`(?i)^([+-]?\d+(?:\.\d+)?)([kmb])?$`)
	ratioPattern = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*(?:in|/|:)\s*(\d+(?:\.\d+)?)\s*$`)

	betweenPattern = regexp.MustCompile(`between\s+(\S+)\s+(?:and|to)\s+(\S+)`)
	spanPattern    = regexp.MustCompile(`^(\S+)\s*(?:–|-|to)\s*(\S+)$`)

	decorations = strings.NewReplacer("\u00a0", "", " ", "", ",", "")
	separators  = strings.NewReplacer(",", "", " ", "")
)

// Percentish is a number that may have been written with a trailing percent sign.
// Value is already divided by 100 when IsPercent is set.
type Percentish struct {
	Value     float64
	IsPercent bool
}

// Range is an inclusive numeric interval with Lo <= Hi.
type Range struct {
	Lo float64
	Hi float64
}

// Contains reports whether n lies within the range, bounds included.
func (r Range) Contains(n float64) bool {
	return n >= r.Lo && n <= r.Hi
}

// NormalizeSpaces collapses runs of whitespace to single spaces and trims.
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripDecorations removes non-breaking spaces, spaces and commas.
func StripDecorations(s string) string {
	return decorations.Replace(s)
}

// ToNumber converts a scalar string to a finite float64, or NaN.
// Only plain decimal notation (with optional sign and exponent) is accepted;
// blank input is NaN rather than zero.
func ToNumber(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" || !startsNumeric(t) {
		return math.NaN()
	}
	n, err := strconv.ParseFloat(t, 64)
	if err != nil || !IsFinite(n) {
		return math.NaN()
	}
	return n
}

// startsNumeric rejects the spellings ParseFloat accepts but plain text never means:
// inf, infinity, nan and hexadecimal floats.
func startsNumeric(t string) bool {
	body := strings.TrimLeft(t, "+-")
	if body == "" {
		return false
	}
	c := body[0]
	if c != '.' && (c < '0' || c > '9') {
		return false
	}
	return !strings.HasPrefix(body, "0x") && !strings.HasPrefix(body, "0X")
}

// IsFinite reports whether n is neither NaN nor an infinity.
func IsFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

// ParseAbbreviated parses "2.1k", "3M", "-4b" style magnitudes.
// Returns nil for any other shape.
func ParseAbbreviated(s string) *float64 {
	m := abbrPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return nil
	}
	n := ToNumber(m[1])
	if !IsFinite(n) {
		return nil
	}
	switch strings.ToLower(m[2]) {
	case "k":
		n *= 1e3
	case "m":
		n *= 1e6
	case "b":
		n *= 1e9
	}
	return &n
}

// ParsePercentish parses "42%" as 0.42 and anything else as a plain number.
func ParsePercentish(s string) *Percentish {
	t := strings.TrimSpace(s)
	pct := strings.HasSuffix(t, "%")
	if pct {
		t = strings.TrimSuffix(t, "%")
	}
	n := ToNumber(separators.Replace(t))
	if !IsFinite(n) {
		return nil
	}
	if pct {
		n /= 100
	}
	return &Percentish{Value: n, IsPercent: pct}
}

// ParseRatio parses "1 in 5", "3/4" or "2:1" into the quotient.
// A zero denominator yields nil.
func ParseRatio(s string) *float64 {
	m := ratioPattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	a, b := ToNumber(m[1]), ToNumber(m[2])
	if !IsFinite(a) || !IsFinite(b) || b == 0 {
		return nil
	}
	q := a / b
	return &q
}

// ExtractRange finds "between X and Y", "X - Y", "X – Y" or "X to Y".
// Endpoints may be abbreviated ("1k"); the result is ordered.
func ExtractRange(s string) *Range {
	compact := NormalizeSpaces(strings.ToLower(s))

	m := betweenPattern.FindStringSubmatch(compact)
	if m == nil {
		m = spanPattern.FindStringSubmatch(compact)
	}
	if m == nil {
		return nil
	}

	a, b := rangeEndpoint(m[1]), rangeEndpoint(m[2])
	if !IsFinite(a) || !IsFinite(b) {
		return nil
	}
	return &Range{Lo: math.Min(a, b), Hi: math.Max(a, b)}
}

func rangeEndpoint(s string) float64 {
	if v := ParseAbbreviated(StripDecorations(s)); v != nil {
		return *v
	}
	return ToNumber(s)
}

// percentAware parses the whole string as a number, honouring a trailing percent sign.
func percentAware(raw string) float64 {
	hasPercent := strings.HasSuffix(raw, "%")
	n := ToNumber(strings.TrimSuffix(separators.Replace(raw), "%"))
	if !IsFinite(n) {
		return math.NaN()
	}
	if hasPercent {
		return n / 100
	}
	return n
}

// Coalesce returns the first non-nil candidate, or NaN.
// Argument order is the caller's priority.
func Coalesce(candidates ...*float64) float64 {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return math.NaN()
}
