package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// PolicyKind names a comparison strategy
type PolicyKind string

const (
	KindExact     PolicyKind = "exact"     // Raw text equal after normalization
	KindRounded   PolicyKind = "rounded"   // Numbers equal after rounding to Decimals
	KindTolerance PolicyKind = "tolerance" // Numbers within relative Tolerance
	KindPercent   PolicyKind = "percent"   // Equal percent-normalized values
	KindRange     PolicyKind = "range"     // Claim number inside a displayed range
	KindAbbr      PolicyKind = "abbr"      // Equal abbreviated magnitudes (2.1k)
	KindRatio     PolicyKind = "ratio"     // Equal "a in b" quotients
	KindYear      PolicyKind = "year"      // Displayed year equals claim year
	KindAuto      PolicyKind = "auto"      // Fixed cascade of the above
)

const (
	DefaultDecimals  = 0
	DefaultTolerance = 0.02
	MaxDecimals      = 100
)

// PolicyKinds lists every policy kind
var PolicyKinds = []PolicyKind{
	KindExact, KindRounded, KindTolerance, KindPercent, KindRange,
	KindAbbr, KindRatio, KindYear, KindAuto,
}

// ParsePolicyKind maps a policy name to its kind
func ParsePolicyKind(s string) (PolicyKind, bool) {
	k := PolicyKind(strings.TrimSpace(s))
	for _, known := range PolicyKinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// Policy selects how displayed text is compared with a claim.
// Decimals is only meaningful for rounded, Tolerance only for tolerance;
// build policies with PolicyOf, RoundedPolicy or TolerancePolicy.
type Policy struct {
	Kind      PolicyKind
	Decimals  int
	Tolerance float64
}

// PolicyOf returns the policy for kind with default parameters
func PolicyOf(kind PolicyKind) Policy {
	switch kind {
	case KindRounded:
		return RoundedPolicy(DefaultDecimals)
	case KindTolerance:
		return TolerancePolicy(DefaultTolerance)
	case "":
		return Policy{Kind: KindAuto}
	default:
		return Policy{Kind: kind}
	}
}

// RoundedPolicy compares after rounding to d decimal places (clamped to 0..100)
func RoundedPolicy(d int) Policy {
	if d < 0 {
		d = 0
	}
	if d > MaxDecimals {
		d = MaxDecimals
	}
	return Policy{Kind: KindRounded, Decimals: d}
}

// TolerancePolicy compares by relative difference; unusable values fall back to 0.02
func TolerancePolicy(tol float64) Policy {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		tol = DefaultTolerance
	}
	return Policy{Kind: KindTolerance, Tolerance: tol}
}

// String describes the policy for people
func (p Policy) String() string {
	switch p.Kind {
	case KindRounded:
		return fmt.Sprintf("rounded(%d)", p.Decimals)
	case KindTolerance:
		return fmt.Sprintf("tolerance(%g)", p.Tolerance)
	case "":
		return string(KindAuto)
	default:
		return string(p.Kind)
	}
}

type policyJSON struct {
	Type      PolicyKind `json:"type"`
	Decimals  *int       `json:"decimals,omitempty"`
	Tolerance *float64   `json:"tolerance,omitempty"`
}

// MarshalJSON emits {"type":...} plus only the field the kind requires
func (p Policy) MarshalJSON() ([]byte, error) {
	out := policyJSON{Type: p.Kind}
	if out.Type == "" {
		out.Type = KindAuto
	}
	switch p.Kind {
	case KindRounded:
		d := p.Decimals
		out.Decimals = &d
	case KindTolerance:
		t := p.Tolerance
		out.Tolerance = &t
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the MarshalJSON form; unknown types become auto
// and missing fields take their defaults
func (p *Policy) UnmarshalJSON(data []byte) error {
	var in policyJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode policy: %w", err)
	}

	kind, ok := ParsePolicyKind(string(in.Type))
	if !ok {
		*p = PolicyOf(KindAuto)
		return nil
	}

	switch {
	case kind == KindRounded && in.Decimals != nil:
		*p = RoundedPolicy(*in.Decimals)
	case kind == KindTolerance && in.Tolerance != nil:
		*p = TolerancePolicy(*in.Tolerance)
	default:
		*p = PolicyOf(kind)
	}
	return nil
}
