package verify

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ValueKind classifies a claim value before it is compared.
type ValueKind int

const (
	// ValueText is a string value (absent values are empty text).
	ValueText ValueKind = iota
	// ValueNumeric is any Go number or json.Number.
	ValueNumeric
	// ValueUnknown is anything else: maps, slices, structs.
	ValueUnknown
)

func (k ValueKind) String() string {
	switch k {
	case ValueText:
		return "text"
	case ValueNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// Value is a claim value with explicit coercion rules.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	Raw    any
}

// NewValue classifies an arbitrary claim value.
//
// nil becomes empty text, strings and booleans stay text, numbers are kept
// as float64, and every other shape is Unknown and compares only as text.
func NewValue(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{Kind: ValueText, Raw: v}
	case string:
		return Value{Kind: ValueText, Text: x, Raw: v}
	case bool:
		return Value{Kind: ValueText, Text: strconv.FormatBool(x), Raw: v}
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return Value{Kind: ValueNumeric, Number: f, Raw: v}
		}
		return Value{Kind: ValueText, Text: x.String(), Raw: v}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		f, err := cast.ToFloat64E(x)
		if err != nil {
			return Value{Kind: ValueUnknown, Raw: v}
		}
		return Value{Kind: ValueNumeric, Number: f, Raw: v}
	default:
		return Value{Kind: ValueUnknown, Raw: v}
	}
}

// String renders the value the way it is compared against displayed text.
func (v Value) String() string {
	switch v.Kind {
	case ValueText:
		return v.Text
	case ValueNumeric:
		return FormatNumber(v.Number)
	default:
		if s, err := cast.ToStringE(v.Raw); err == nil {
			return s
		}
		if b, err := json.Marshal(v.Raw); err == nil {
			return string(b)
		}
		return fmt.Sprint(v.Raw)
	}
}

// IsZero reports whether the value carries nothing to display.
func (v Value) IsZero() bool {
	return v.Raw == nil || (v.Kind == ValueText && v.Text == "")
}

// FormatNumber renders a float the shortest way that round-trips, switching to
// exponent notation outside [1e-6, 1e21) like ECMAScript number-to-string.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}
