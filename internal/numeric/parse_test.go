package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSpaces(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeSpaces("  a \t b\n\n c  "))
	assert.Equal(t, "5 %", NormalizeSpaces("5 %"))
	assert.Equal(t, "", NormalizeSpaces("   "))
}

func TestStripDecorations(t *testing.T) {
	assert.Equal(t, "1234567", StripDecorations("1,234 567"))
	assert.Equal(t, "12.5%", StripDecorations("12.5 %"))
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" -3.5 ", -3.5, true},
		{"+.5", 0.5, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"Infinity", 0, false},
		{"NaN", 0, false},
		{"0x10", 0, false},
		{"1,000", 0, false},
		{"1e400", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ToNumber(tt.in)
			if !tt.ok {
				assert.True(t, math.IsNaN(got), "expected NaN for %q, got %v", tt.in, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAbbreviated(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"2.1k", ptr(2100)},
		{"2.1K", ptr(2100)},
		{"3m", ptr(3e6)},
		{"-4b", ptr(-4e9)},
		{"  17 ", ptr(17)},
		{"1.5kb", nil},
		{"k", nil},
		{"2.1 k", nil},
		{"$2k", nil},
		{"1.", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseAbbreviated(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestParsePercentish(t *testing.T) {
	p := ParsePercentish("42%")
	require.NotNil(t, p)
	assert.True(t, p.IsPercent)
	assert.Equal(t, 0.42, p.Value)

	p = ParsePercentish("1,234.5")
	require.NotNil(t, p)
	assert.False(t, p.IsPercent)
	assert.Equal(t, 1234.5, p.Value)

	p = ParsePercentish("0.42")
	require.NotNil(t, p)
	assert.Equal(t, 0.42, p.Value)

	assert.Nil(t, ParsePercentish("%"))
	assert.Nil(t, ParsePercentish("about 5%"))
	assert.Nil(t, ParsePercentish(""))
}

func TestParseRatio(t *testing.T) {
	r := ParseRatio("1 in 5")
	require.NotNil(t, r)
	assert.Equal(t, 0.2, *r)

	r = ParseRatio("3/4")
	require.NotNil(t, r)
	assert.Equal(t, 0.75, *r)

	r = ParseRatio(" 2 : 1 ")
	require.NotNil(t, r)
	assert.Equal(t, 2.0, *r)

	r = ParseRatio("1 IN 4")
	require.NotNil(t, r)
	assert.Equal(t, 0.25, *r)

	assert.Nil(t, ParseRatio("1 in 0"))
	assert.Nil(t, ParseRatio("-1/2"))
	assert.Nil(t, ParseRatio("one in five"))
}

func TestExtractRange(t *testing.T) {
	tests := []struct {
		in     string
		lo, hi float64
		ok     bool
	}{
		{"between 1k and 3k", 1000, 3000, true},
		{"Between 3k to 1k", 1000, 3000, true},
		{"around between 10 and 20 people", 10, 20, true},
		{"10 - 20", 10, 20, true},
		{"10–20", 10, 20, true},
		{"20 to 10", 10, 20, true},
		{"1,000 - 2,500", 1000, 2500, true},
		{"10 apples", 0, 0, false},
		{"between x and y", 0, 0, false},
		{"", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r := ExtractRange(tt.in)
			if !tt.ok {
				assert.Nil(t, r)
				return
			}
			require.NotNil(t, r)
			assert.Equal(t, tt.lo, r.Lo)
			assert.Equal(t, tt.hi, r.Hi)
		})
	}
}

func TestRange_Contains(t *testing.T) {
	r := Range{Lo: 1, Hi: 3}
	assert.True(t, r.Contains(1))
	assert.True(t, r.Contains(3))
	assert.False(t, r.Contains(3.0001))
	assert.False(t, r.Contains(math.NaN()))
}

func TestBuild(t *testing.T) {
	r := Build("42%")
	require.NotNil(t, r.Percent)
	assert.Equal(t, 0.42, r.Percent.Value)
	assert.Nil(t, r.Abbr)
	assert.Nil(t, r.Ratio)
	assert.Equal(t, 0.42, r.Plain)

	r = Build("2.1K")
	require.NotNil(t, r.Abbr)
	assert.Equal(t, 2100.0, *r.Abbr)
	assert.Nil(t, r.Percent)
	assert.True(t, math.IsNaN(r.Plain))

	r = Build("1 in 5")
	require.NotNil(t, r.Ratio)
	assert.Equal(t, 0.2, *r.Ratio)
	assert.Nil(t, r.PercentValue())
	assert.Nil(t, r.PlainValue())

	r = Build("1,000")
	assert.Equal(t, 1000.0, r.Plain)
	require.NotNil(t, r.Abbr)
	assert.Equal(t, 1000.0, *r.Abbr)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 2.0, Coalesce(nil, ptr(2), ptr(3)))
	assert.Equal(t, 0.0, Coalesce(ptr(0), ptr(3)))
	assert.True(t, math.IsNaN(Coalesce()))
	assert.True(t, math.IsNaN(Coalesce(nil, nil)))
}

func ptr(f float64) *float64 { return &f }
