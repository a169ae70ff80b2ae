package verify

import (
	"math"

	"github.com/ppiankov/claimmark/internal/model"
	"github.com/ppiankov/claimmark/internal/numeric"
)

// PolicyFromAttrs builds a well-formed Policy from markup attribute strings
// such as <claim policy="rounded" decimals="2">.
//
// Unknown or blank types become auto. A decimals value that is not a number
// becomes 0; fractional values truncate and out-of-range values clamp to
// 0..100. A tolerance that is not a non-negative number becomes 0.02.
func PolicyFromAttrs(policyType, decimals, tolerance string) model.Policy {
	kind, ok := model.ParsePolicyKind(policyType)
	if !ok {
		return model.PolicyOf(model.KindAuto)
	}

	switch kind {
	case model.KindRounded:
		d := numeric.ToNumber(decimals)
		if !numeric.IsFinite(d) {
			return model.RoundedPolicy(model.DefaultDecimals)
		}
		d = math.Max(0, math.Min(d, model.MaxDecimals))
		return model.RoundedPolicy(int(math.Trunc(d)))
	case model.KindTolerance:
		return model.TolerancePolicy(numeric.ToNumber(tolerance))
	default:
		return model.PolicyOf(kind)
	}
}
