package score

import (
	"testing"

	"github.com/ppiankov/claimmark/internal/model"
)

func span(id string, status model.SpanStatus, kind, via model.PolicyKind) model.SpanResult {
	return model.SpanResult{ID: id, Status: status, Policy: model.PolicyOf(kind), Via: via}
}

func findSignal(signals []model.Signal, typ model.SignalType) *model.Signal {
	for i := range signals {
		if signals[i].Type == typ {
			return &signals[i]
		}
	}
	return nil
}

func TestScorer_Calculate_AllVerified(t *testing.T) {
	scorer := NewScorer()

	spans := []model.SpanResult{
		span("a", model.StatusVerified, model.KindExact, model.KindExact),
		span("b", model.StatusVerified, model.KindAuto, model.KindPercent),
		span("c", model.StatusVerified, model.KindRounded, model.KindRounded),
	}

	result := scorer.Calculate(spans, nil)

	if result.Index != 100 {
		t.Errorf("Expected index 100, got %d", result.Index)
	}
	if result.Confidence != "high" {
		t.Errorf("Expected high confidence, got %s", result.Confidence)
	}
	if result.Verified != 3 || result.Unverified != 0 || result.Missing != 0 {
		t.Errorf("Expected 3/0/0, got %d/%d/%d", result.Verified, result.Unverified, result.Missing)
	}
	if findSignal(result.Signals, model.SignalUnverified) != nil {
		t.Error("Expected no unverified signal")
	}
}

func TestScorer_Calculate_EmptySpans(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(nil, nil)

	if result.Index != 0 {
		t.Errorf("Expected index 0 for no spans, got %d", result.Index)
	}
	if result.Confidence != "low" {
		t.Errorf("Expected low confidence, got %s", result.Confidence)
	}
	if len(result.Signals) != 1 || result.Signals[0].Type != model.SignalNoClaims {
		t.Errorf("Expected single no_claims signal, got %+v", result.Signals)
	}
}

func TestScorer_Calculate_Mixed(t *testing.T) {
	scorer := NewScorer()

	spans := []model.SpanResult{
		span("a", model.StatusVerified, model.KindAuto, model.KindTolerance),
		span("b", model.StatusVerified, model.KindExact, model.KindExact),
		span("c", model.StatusUnverified, model.KindAbbr, ""),
		span("d", model.StatusMissing, model.KindAuto, ""),
	}

	result := scorer.Calculate(spans, nil)

	// coverage 2/4*70 = 35, resolvability 3/4*20 = 15, strictness 1/2*10 = 5
	if result.Index != 55 {
		t.Errorf("Expected index 55, got %d", result.Index)
	}
	if result.Confidence != "low" {
		t.Errorf("Expected low confidence, got %s", result.Confidence)
	}

	unverified := findSignal(result.Signals, model.SignalUnverified)
	if unverified == nil {
		t.Fatal("Expected unverified signal")
	}
	if ids, ok := unverified.Data["ids"].([]string); !ok || len(ids) != 1 || ids[0] != "c" {
		t.Errorf("Expected unverified ids [c], got %v", unverified.Data["ids"])
	}

	missing := findSignal(result.Signals, model.SignalMissingClaims)
	if missing == nil || missing.Severity != model.SeverityWarning {
		t.Errorf("Expected missing_claims warning, got %+v", missing)
	}

	mix := findSignal(result.Signals, model.SignalPolicyMix)
	if mix == nil || mix.Description != "Policies: abbr=1, auto=2, exact=1" {
		t.Errorf("Expected policy mix description, got %+v", mix)
	}
}

func TestScorer_Calculate_LintPenalty(t *testing.T) {
	scorer := NewScorer()

	spans := []model.SpanResult{
		span("a", model.StatusVerified, model.KindExact, model.KindExact),
		span("b", model.StatusVerified, model.KindExact, model.KindExact),
		span("c", model.StatusVerified, model.KindExact, model.KindExact),
	}
	validation := []model.ValidationResult{
		{ID: "a", Level: model.IssueError, Code: "duplicate_id"},
		{ID: "b", Level: model.IssueWarning, Code: "unknown_policy"},
	}

	result := scorer.Calculate(spans, validation)

	if result.Index != 95 {
		t.Errorf("Expected index 95 after one lint error, got %d", result.Index)
	}
	if result.Confidence != "medium" {
		t.Errorf("Expected lint errors to cap confidence at medium, got %s", result.Confidence)
	}

	lint := findSignal(result.Signals, model.SignalLintFindings)
	if lint == nil || lint.Severity != model.SeverityCritical {
		t.Errorf("Expected critical lint signal, got %+v", lint)
	}
}

func TestScorer_Calculate_LintPenaltyCapped(t *testing.T) {
	scorer := NewScorer()

	spans := []model.SpanResult{span("a", model.StatusVerified, model.KindExact, model.KindExact)}
	validation := make([]model.ValidationResult, 10)
	for i := range validation {
		validation[i] = model.ValidationResult{Level: model.IssueError}
	}

	result := scorer.Calculate(spans, validation)
	if result.Index != 80 {
		t.Errorf("Expected penalty capped at 20, got index %d", result.Index)
	}
}

func TestScorer_LooseMatchesOnlyCountAuto(t *testing.T) {
	scorer := NewScorer()

	spans := []model.SpanResult{
		span("a", model.StatusVerified, model.KindRounded, model.KindRounded),
		span("b", model.StatusVerified, model.KindAuto, model.KindRange),
	}

	result := scorer.Calculate(spans, nil)

	loose := findSignal(result.Signals, model.SignalLooseMatches)
	if loose == nil {
		t.Fatal("Expected loose_matches signal")
	}
	if loose.Data["loose"] != 1 {
		t.Errorf("Expected 1 loose match, got %v", loose.Data["loose"])
	}
}
