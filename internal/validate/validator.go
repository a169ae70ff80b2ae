package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/claimmark/internal/model"
	"github.com/ppiankov/claimmark/internal/numeric"
	"github.com/ppiankov/claimmark/internal/verify"
)

// ClaimLookup resolves claim ids
type ClaimLookup interface {
	Get(id string) (model.Claim, bool)
}

// Validator lints claim tags against a claim source
type Validator struct {
	claims ClaimLookup
	levels *LevelClassifier
}

// NewValidator creates a new validator. A nil lookup skips store checks.
func NewValidator(claims ClaimLookup, config *model.LintConfig) *Validator {
	return &Validator{
		claims: claims,
		levels: NewLevelClassifier(config),
	}
}

// Validate lints every tag and returns findings in tag order
func (v *Validator) Validate(ctx context.Context, tags []model.ClaimTag) ([]model.ValidationResult, error) {
	if len(tags) == 0 {
		return []model.ValidationResult{}, nil
	}

	results := []model.ValidationResult{}
	seen := make(map[string]int, len(tags))

	for _, tag := range tags {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("lint cancelled: %w", err)
		}

		id := strings.TrimSpace(tag.ID)
		if id != "" {
			seen[id]++
			if seen[id] == 2 {
				results = v.add(results, id, CodeDuplicateID, "claim id is used more than once")
			}
		}

		results = append(results, v.validateSingle(tag)...)
	}

	return results, nil
}

// validateSingle lints a single claim tag
func (v *Validator) validateSingle(tag model.ClaimTag) []model.ValidationResult {
	var results []model.ValidationResult
	id := strings.TrimSpace(tag.ID)

	if id == "" {
		results = v.add(results, "", CodeMissingID, fmt.Sprintf("claim tag has no id (text %q)", truncate(tag.Value, 40)))
	}

	if strings.TrimSpace(tag.Value) == "" {
		results = v.add(results, id, CodeEmptyText, "claim tag has no text to verify")
	}

	results = append(results, v.checkPolicy(id, tag)...)

	if id == "" || v.claims == nil {
		return results
	}

	claim, ok := v.claims.Get(id)
	if !ok {
		if !v.levels.Exempt(id) {
			results = v.add(results, id, CodeMissingClaim, "no claim registered for this id")
		}
		return results
	}

	if tag.Policy.Kind == model.KindYear {
		if _, ok := verify.YearOf(claim.Date, claim.Value); !ok {
			results = v.add(results, id, CodeUndatableYear, "year policy but the claim has no parseable date")
		}
	}

	return results
}

// checkPolicy lints the policy attributes as written
func (v *Validator) checkPolicy(id string, tag model.ClaimTag) []model.ValidationResult {
	var results []model.ValidationResult

	raw := strings.TrimSpace(tag.RawPolicy)
	kind, known := model.ParsePolicyKind(raw)
	switch {
	case raw == "":
		results = v.add(results, id, CodeMissingPolicy, "no policy attribute, auto is used")
	case !known:
		results = v.add(results, id, CodeUnknownPolicy, fmt.Sprintf("unknown policy %q, auto is used", raw))
	}

	if tag.Decimals != "" {
		if kind != model.KindRounded {
			results = v.add(results, id, CodeIgnoredAttribute, "decimals only applies to the rounded policy")
		} else if d := numeric.ToNumber(tag.Decimals); !numeric.IsFinite(d) || d < 0 || d > model.MaxDecimals || d != float64(int(d)) {
			results = v.add(results, id, CodeBadDecimals, fmt.Sprintf("decimals %q is not an integer in 0..%d, using %d", tag.Decimals, model.MaxDecimals, tag.Policy.Decimals))
		}
	}

	if tag.Tolerance != "" {
		if kind != model.KindTolerance {
			results = v.add(results, id, CodeIgnoredAttribute, "tolerance only applies to the tolerance policy")
		} else if t := numeric.ToNumber(tag.Tolerance); !numeric.IsFinite(t) || t < 0 {
			results = v.add(results, id, CodeBadTolerance, fmt.Sprintf("tolerance %q is not a non-negative number, using %g", tag.Tolerance, tag.Policy.Tolerance))
		}
	}

	return results
}

// add appends a finding unless its code is ignored
func (v *Validator) add(results []model.ValidationResult, id, code, message string) []model.ValidationResult {
	level, ok := v.levels.Classify(code)
	if !ok {
		return results
	}
	return append(results, model.ValidationResult{
		ID:      id,
		Level:   level,
		Code:    code,
		Message: message,
	})
}

// HasErrors reports whether any finding is an error
func HasErrors(results []model.ValidationResult) bool {
	for _, r := range results {
		if r.Level == model.IssueError {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
