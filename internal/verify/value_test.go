package verify

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind ValueKind
		str  string
	}{
		{"nil", nil, ValueText, ""},
		{"string", "12.5%", ValueText, "12.5%"},
		{"bool", true, ValueText, "true"},
		{"int", 2100, ValueNumeric, "2100"},
		{"int64", int64(-7), ValueNumeric, "-7"},
		{"float", 0.42, ValueNumeric, "0.42"},
		{"float32", float32(0.5), ValueNumeric, "0.5"},
		{"json number", json.Number("12.50"), ValueNumeric, "12.5"},
		{"map", map[string]any{"a": 1}, ValueUnknown, `{"a":1}`},
		{"slice", []int{1, 2}, ValueUnknown, "[1,2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValue(tt.in)
			assert.Equal(t, tt.kind, v.Kind)
			assert.Equal(t, tt.str, v.String())
		})
	}
}

func TestValue_IsZero(t *testing.T) {
	assert.True(t, NewValue(nil).IsZero())
	assert.True(t, NewValue("").IsZero())
	assert.False(t, NewValue(0).IsZero())
	assert.False(t, NewValue("x").IsZero())
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{2100, "2100"},
		{-3.5, "-3.5"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{1e-6, "0.000001"},
		{math.NaN(), "NaN"},
		{math.Inf(-1), "-Infinity"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in))
	}
}

func TestYearOf(t *testing.T) {
	y, ok := YearOf("2022-06-01", 12.5)
	assert.True(t, ok)
	assert.Equal(t, 2022, y)

	y, ok = YearOf("", "2019-01")
	assert.True(t, ok)
	assert.Equal(t, 2019, y)

	_, ok = YearOf("", "KEN")
	assert.False(t, ok)
}
