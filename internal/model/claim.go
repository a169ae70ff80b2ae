package model

import "time"

// Claim is a registered source-of-truth datum
type Claim struct {
	Value   any    `json:"value"`             // Source value: number, string, or structured data
	Country string `json:"country,omitempty"` // Optional context (e.g., "KEN")
	Date    string `json:"date,omitempty"`    // Optional ISO-like date (e.g., "2022-06-01")
}

// ClaimEntry pairs a claim with its identifier
type ClaimEntry struct {
	ID    string `json:"id"`
	Claim Claim  `json:"claim"`
}

// DateOf formats a time as a claim date (YYYY-MM-DD, UTC)
func DateOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ClaimTag is a <claim> element found while scanning a document
type ClaimTag struct {
	Tag       string `json:"tag"`                  // Serialized element
	ID        string `json:"id"`                   // Claim identifier
	Policy    Policy `json:"policy"`               // Sanitized policy
	RawPolicy string `json:"raw_policy,omitempty"` // Policy attribute as written
	Decimals  string `json:"decimals,omitempty"`   // decimals attribute as written
	Tolerance string `json:"tolerance,omitempty"`  // tolerance attribute as written
	Value     string `json:"value"`                // Displayed text
}

// ClaimSpan is a <claim> element located by byte offsets in a document
type ClaimSpan struct {
	Start  int    `json:"start"`  // Offset of the opening tag
	End    int    `json:"end"`    // Offset just past the closing tag
	ID     string `json:"id"`     // Claim identifier
	Policy Policy `json:"policy"` // Sanitized policy
	Inner  string `json:"inner"`  // Inner markup with earlier verification marks removed
	Text   string `json:"text"`   // Visible inner text used for comparison
}
