package numeric

import "strings"

// Reading bundles every numeric interpretation of one string.
// Readings are built per comparison and never cached.
type Reading struct {
	Percent *Percentish
	Abbr    *float64
	Ratio   *float64
	Plain   float64 // NaN when the whole string is not a number
}

// Build runs all parsers over the same raw string.
func Build(raw string) Reading {
	return Reading{
		Percent: ParsePercentish(raw),
		Abbr:    ParseAbbreviated(StripDecorations(strings.ToLower(raw))),
		Ratio:   ParseRatio(raw),
		Plain:   percentAware(raw),
	}
}

// PercentValue returns the percent-normalized value, if any.
func (r Reading) PercentValue() *float64 {
	if r.Percent == nil {
		return nil
	}
	v := r.Percent.Value
	return &v
}

// PlainValue returns the plain reading as an optional.
func (r Reading) PlainValue() *float64 {
	if !IsFinite(r.Plain) {
		return nil
	}
	v := r.Plain
	return &v
}
