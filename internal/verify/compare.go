package verify

import (
	"strings"

	"github.com/ppiankov/claimmark/internal/model"
	"github.com/ppiankov/claimmark/internal/numeric"
)

// Verdict is the outcome of one comparison. Via names the strategy that
// matched; under the auto policy that is the cascade step that succeeded.
type Verdict struct {
	Match bool             `json:"match"`
	Via   model.PolicyKind `json:"via,omitempty"`
}

// subject holds everything derived once per comparison.
type subject struct {
	innerRaw string
	claimRaw string
	claim    model.Claim

	inner      numeric.Reading
	claimParts numeric.Reading

	// percent-first numbers used by rounded and tolerance
	innerNum float64
	claimNum float64
}

func (s *subject) bothNumeric() bool {
	return numeric.IsFinite(s.innerNum) && numeric.IsFinite(s.claimNum)
}

// rule is one step of the auto cascade.
type rule struct {
	kind  model.PolicyKind
	match func(*subject) bool
}

// autoCascade is the fixed priority order tried by the auto policy.
var autoCascade = []rule{
	{model.KindExact, func(s *subject) bool { return matchExact(s.innerRaw, s.claimRaw) }},
	{model.KindPercent, matchPercent},
	{model.KindAbbr, matchAbbr},
	{model.KindRatio, matchRatio},
	{model.KindRounded, func(s *subject) bool { return s.bothNumeric() && equalRounded(s.innerNum, s.claimNum, 0) }},
	{model.KindTolerance, func(s *subject) bool { return s.bothNumeric() && withinTolerance(s.innerNum, s.claimNum, model.DefaultTolerance) }},
	{model.KindRange, func(s *subject) bool { return matchRange(s.innerRaw, s.claimNum) }},
}

// AutoOrder returns the auto cascade order.
func AutoOrder() []model.PolicyKind {
	out := make([]model.PolicyKind, len(autoCascade))
	for i, r := range autoCascade {
		out[i] = r.kind
	}
	return out
}

// Compare reports whether displayed text matches the claim under policy.
// It has no side effects and is safe for concurrent use.
func Compare(text string, claim model.Claim, policy model.Policy) bool {
	return CompareDetailed(text, claim, policy).Match
}

// CompareDetailed is Compare plus the strategy that produced a match.
func CompareDetailed(text string, claim model.Claim, policy model.Policy) Verdict {
	innerRaw := numeric.NormalizeSpaces(strings.TrimSpace(text))
	claimRaw := strings.TrimSpace(NewValue(claim.Value).String())

	kind := policy.Kind
	if kind == "" {
		kind = model.KindAuto
	}

	// Exact needs no numeric parsing.
	if kind == model.KindExact || kind == model.KindAuto {
		if matchExact(innerRaw, claimRaw) {
			return Verdict{Match: true, Via: model.KindExact}
		}
		if kind == model.KindExact {
			return Verdict{}
		}
	}

	s := newSubject(innerRaw, claimRaw, claim)

	var ok bool
	switch kind {
	case model.KindPercent:
		ok = matchPercent(s)
	case model.KindAbbr:
		ok = matchAbbr(s)
	case model.KindRatio:
		ok = matchRatio(s)
	case model.KindYear:
		ok = matchYear(s)
	case model.KindRange:
		claimNum := numeric.Coalesce(s.claimParts.Abbr, s.claimParts.PercentValue(), s.claimParts.Ratio, s.claimParts.PlainValue())
		ok = matchRange(innerRaw, claimNum)
	case model.KindRounded:
		ok = s.bothNumeric() && equalRounded(s.innerNum, s.claimNum, policy.Decimals)
	case model.KindTolerance:
		ok = s.bothNumeric() && withinTolerance(s.innerNum, s.claimNum, policy.Tolerance)
	case model.KindAuto:
		// exact already failed above
		for _, r := range autoCascade[1:] {
			if r.match(s) {
				return Verdict{Match: true, Via: r.kind}
			}
		}
		return Verdict{}
	}

	if !ok {
		return Verdict{}
	}
	return Verdict{Match: true, Via: kind}
}

func newSubject(innerRaw, claimRaw string, claim model.Claim) *subject {
	s := &subject{
		innerRaw:   innerRaw,
		claimRaw:   claimRaw,
		claim:      claim,
		inner:      numeric.Build(innerRaw),
		claimParts: numeric.Build(claimRaw),
	}
	s.innerNum = percentFirst(s.inner)
	s.claimNum = percentFirst(s.claimParts)
	return s
}

func percentFirst(r numeric.Reading) float64 {
	return numeric.Coalesce(r.PercentValue(), r.Abbr, r.Ratio, r.PlainValue())
}

// matchExact compares raw text ignoring percent signs, spaces and commas.
// Empty displayed text never matches.
func matchExact(innerRaw, claimRaw string) bool {
	inner := numeric.StripDecorations(strings.ReplaceAll(innerRaw, "%", ""))
	if inner == "" {
		return false
	}
	return inner == numeric.StripDecorations(strings.ReplaceAll(claimRaw, "%", ""))
}

func matchPercent(s *subject) bool {
	a, b := s.inner.Percent, s.claimParts.Percent
	return a != nil && b != nil && a.Value == b.Value
}

func matchAbbr(s *subject) bool {
	a, b := s.inner.Abbr, s.claimParts.Abbr
	return a != nil && b != nil && *a == *b
}

func matchRatio(s *subject) bool {
	a, b := s.inner.Ratio, s.claimParts.Ratio
	return a != nil && b != nil && *a == *b
}

func matchRange(innerRaw string, claimNum float64) bool {
	r := numeric.ExtractRange(innerRaw)
	return r != nil && numeric.IsFinite(claimNum) && r.Contains(claimNum)
}

func matchYear(s *subject) bool {
	inner := textYear(s.innerRaw)
	claim := claimYear(s.claim.Date, s.claimRaw)
	return numeric.IsFinite(inner) && numeric.IsFinite(claim) && inner == claim
}
