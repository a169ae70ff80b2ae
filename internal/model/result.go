package model

// SpanStatus classifies the outcome for one annotated span
type SpanStatus string

const (
	StatusVerified   SpanStatus = "verified"   // Comparator matched
	StatusUnverified SpanStatus = "unverified" // Claim found but did not match
	StatusMissing    SpanStatus = "missing"    // No claim registered for the id
)

// SpanResult records how one claim span was resolved
type SpanResult struct {
	ID      string     `json:"id"`
	Text    string     `json:"text"`              // Displayed text that was compared
	Policy  Policy     `json:"policy"`            // Policy applied
	Status  SpanStatus `json:"status"`            // verified, unverified, missing
	Via     PolicyKind `json:"via,omitempty"`     // Strategy that matched (auto cascade step)
	Value   string     `json:"value,omitempty"`   // Claim value as compared
	Country string     `json:"country,omitempty"` // Claim country
	Date    string     `json:"date,omitempty"`    // Claim date
}

// IssueLevel grades a lint finding
type IssueLevel string

const (
	IssueInfo    IssueLevel = "info"
	IssueWarning IssueLevel = "warning"
	IssueError   IssueLevel = "error"
)

// ValidationResult is one lint finding about a claim tag
type ValidationResult struct {
	ID      string     `json:"id"`
	Level   IssueLevel `json:"level"`
	Code    string     `json:"code"`    // Stable identifier (e.g., "missing_claim")
	Message string     `json:"message"` // Human-readable explanation
}
