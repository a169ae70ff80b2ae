package score

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/claimmark/internal/model"
)

// lintPenaltyPerError and maxLintPenalty bound the deduction for lint errors
const (
	lintPenaltyPerError = 5
	maxLintPenalty      = 20
)

// Scorer calculates the verification index and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate calculates the verification score and generates diagnostic signals
func (s *Scorer) Calculate(spans []model.SpanResult, validation []model.ValidationResult) model.Score {
	verified, unverified, missing := count(spans)
	total := len(spans)

	if total == 0 {
		return model.Score{
			Index:      0,
			Confidence: "low",
			Signals: []model.Signal{{
				Type:        model.SignalNoClaims,
				Severity:    model.SeverityCritical,
				Description: "No claim spans found",
				Data:        map[string]interface{}{"spans": 0},
			}},
		}
	}

	var signals []model.Signal

	// 1. Coverage (0-70 points)
	coverageScore, coverageSignal := s.calculateCoverage(verified, total)
	signals = append(signals, coverageSignal)

	// 2. Resolvability (0-20 points)
	resolveScore, missingSignal := s.calculateResolvability(missing, total)
	signals = append(signals, missingSignal)

	// 3. Strictness (0-10 points)
	strictScore, looseSignal := s.calculateStrictness(spans, verified)
	signals = append(signals, looseSignal)

	// 4. Unverified spans
	if unverified > 0 {
		signals = append(signals, s.unverifiedSignal(spans, unverified))
	}

	// 5. Policy distribution
	signals = append(signals, s.policyMix(spans))

	// 6. Lint findings (penalty)
	penalty, lintSignal := s.lintPenalty(validation)
	if lintSignal.Type != "" {
		signals = append(signals, lintSignal)
	}

	totalScore := coverageScore + resolveScore + strictScore - penalty
	if totalScore < 0 {
		totalScore = 0
	}

	return model.Score{
		Index:      totalScore,
		Confidence: s.determineConfidence(totalScore, total, penalty > 0),
		Verified:   verified,
		Unverified: unverified,
		Missing:    missing,
		Signals:    signals,
	}
}

func count(spans []model.SpanResult) (verified, unverified, missing int) {
	r := model.Report{Spans: spans}
	return r.Counts()
}

// calculateCoverage calculates the verified share score (0-70 points)
func (s *Scorer) calculateCoverage(verified, total int) (int, model.Signal) {
	ratio := float64(verified) / float64(total)
	score := int(ratio * 70)

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityCritical
	} else if ratio < 1.0 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Verified spans: %d/%d (%.0f%%)", verified, total, ratio*100),
		Data: map[string]interface{}{
			"verified": verified,
			"total":    total,
			"ratio":    ratio,
			"score":    score,
			"formula":  "verified / total * 70",
		},
	}
}

// calculateResolvability scores spans whose id resolves to a claim (0-20 points)
func (s *Scorer) calculateResolvability(missing, total int) (int, model.Signal) {
	ratio := 1 - float64(missing)/float64(total)
	score := int(ratio * 20)

	severity := model.SeverityInfo
	description := "All claim ids resolved"
	if missing > 0 {
		severity = model.SeverityWarning
		description = fmt.Sprintf("%d claim id(s) not registered", missing)
		if ratio < 0.5 {
			severity = model.SeverityCritical
		}
	}

	return score, model.Signal{
		Type:        model.SignalMissingClaims,
		Severity:    severity,
		Description: description,
		Data: map[string]interface{}{
			"missing": missing,
			"total":   total,
			"score":   score,
			"formula": "(1 - missing / total) * 20",
		},
	}
}

// calculateStrictness rewards verified spans that did not need a loose auto step (0-10 points)
func (s *Scorer) calculateStrictness(spans []model.SpanResult, verified int) (int, model.Signal) {
	loose := 0
	for _, sp := range spans {
		if sp.Status == model.StatusVerified && isLoose(sp) {
			loose++
		}
	}

	score := 0
	if verified > 0 {
		score = int(float64(verified-loose) / float64(verified) * 10)
	}

	severity := model.SeverityInfo
	if verified > 0 && loose*2 > verified {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalLooseMatches,
		Severity:    severity,
		Description: fmt.Sprintf("Loose auto matches: %d/%d verified", loose, verified),
		Data: map[string]interface{}{
			"loose":    loose,
			"verified": verified,
			"score":    score,
			"formula":  "(verified - loose) / verified * 10",
		},
	}
}

// isLoose reports an auto match that needed rounding, tolerance or a range
func isLoose(sp model.SpanResult) bool {
	if sp.Policy.Kind != model.KindAuto && sp.Policy.Kind != "" {
		return false
	}
	switch sp.Via {
	case model.KindRounded, model.KindTolerance, model.KindRange:
		return true
	}
	return false
}

func (s *Scorer) unverifiedSignal(spans []model.SpanResult, unverified int) model.Signal {
	var ids []string
	for _, sp := range spans {
		if sp.Status == model.StatusUnverified {
			ids = append(ids, sp.ID)
		}
	}

	return model.Signal{
		Type:        model.SignalUnverified,
		Severity:    model.SeverityWarning,
		Description: fmt.Sprintf("%d span(s) do not match their claim: %s", unverified, strings.Join(ids, ", ")),
		Data: map[string]interface{}{
			"unverified": unverified,
			"ids":        ids,
		},
	}
}

func (s *Scorer) policyMix(spans []model.SpanResult) model.Signal {
	counts := make(map[string]int)
	for _, sp := range spans {
		counts[sp.Policy.String()]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	data := make(map[string]interface{}, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, counts[name]))
		data[name] = counts[name]
	}

	return model.Signal{
		Type:        model.SignalPolicyMix,
		Severity:    model.SeverityInfo,
		Description: "Policies: " + strings.Join(parts, ", "),
		Data:        data,
	}
}

// lintPenalty deducts points for lint errors
func (s *Scorer) lintPenalty(validation []model.ValidationResult) (int, model.Signal) {
	errs, warns := 0, 0
	for _, v := range validation {
		switch v.Level {
		case model.IssueError:
			errs++
		case model.IssueWarning:
			warns++
		}
	}
	if errs == 0 && warns == 0 {
		return 0, model.Signal{}
	}

	penalty := errs * lintPenaltyPerError
	if penalty > maxLintPenalty {
		penalty = maxLintPenalty
	}

	severity := model.SeverityWarning
	if errs > 0 {
		severity = model.SeverityCritical
	}

	return penalty, model.Signal{
		Type:        model.SignalLintFindings,
		Severity:    severity,
		Description: fmt.Sprintf("Lint: %d error(s), %d warning(s)", errs, warns),
		Data: map[string]interface{}{
			"errors":   errs,
			"warnings": warns,
			"penalty":  penalty,
			"formula":  "min(errors * 5, 20)",
		},
	}
}

// determineConfidence determines the confidence level based on the score
func (s *Scorer) determineConfidence(score int, spanCount int, lintErrors bool) string {
	if spanCount < 3 {
		return "low"
	}

	if score >= 90 && !lintErrors {
		return "high"
	} else if score >= 70 {
		return "medium"
	} else {
		return "low"
	}
}
