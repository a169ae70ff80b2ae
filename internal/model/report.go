package model

import "time"

// Report is the outcome of annotating one document
type Report struct {
	Subject     string    `json:"subject"`      // Subject of the report (e.g., "q3-summary")
	Source      string    `json:"source"`       // Path the document was read from
	ProcessedAt time.Time `json:"processed_at"` // When annotation ran
	Revision    uint64    `json:"revision"`     // Claim store revision used

	Spans      []SpanResult       `json:"spans"`                // Per-span outcomes
	Validation []ValidationResult `json:"validation,omitempty"` // Lint findings

	Score      Score      `json:"score"`      // Verification index and breakdown
	Principles Principles `json:"principles"` // Rules applied
}

// Score is the transparent scoring breakdown
type Score struct {
	Index      int      `json:"index"`      // Share of spans verified (0-100)
	Confidence string   `json:"confidence"` // "low", "medium", "high"
	Verified   int      `json:"verified"`
	Unverified int      `json:"unverified"`
	Missing    int      `json:"missing"`
	Signals    []Signal `json:"signals"`
}

// Signal is a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies a diagnostic signal
type SignalType string

const (
	SignalCoverage      SignalType = "coverage"       // Verified-to-span ratio
	SignalMissingClaims SignalType = "missing_claims" // Spans whose id is not registered
	SignalUnverified    SignalType = "unverified"     // Spans that did not match
	SignalPolicyMix     SignalType = "policy_mix"     // Distribution of policies used
	SignalLooseMatches  SignalType = "loose_matches"  // Auto matches that needed rounding, tolerance or range
	SignalNoClaims      SignalType = "no_claims"      // Document has no claim spans
	SignalLintFindings  SignalType = "lint_findings"  // Validation issues
)

// SignalSeverity indicates the importance of a signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// Principles documents which rules were applied
type Principles struct {
	NoFalsePositives bool `json:"no_false_positives"` // Non-finite readings never match
	MissingIsPending bool `json:"missing_is_pending"` // Unknown ids render unverified
	Deterministic    bool `json:"deterministic"`      // Same inputs, same verdict
}

// DefaultPrinciples returns the standard principles
func DefaultPrinciples() Principles {
	return Principles{
		NoFalsePositives: true,
		MissingIsPending: true,
		Deterministic:    true,
	}
}

// Counts returns how many spans ended in each status
func (r *Report) Counts() (verified, unverified, missing int) {
	for _, s := range r.Spans {
		switch s.Status {
		case StatusVerified:
			verified++
		case StatusUnverified:
			unverified++
		case StatusMissing:
			missing++
		}
	}
	return verified, unverified, missing
}
