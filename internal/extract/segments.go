package extract

import (
	"regexp"

	"github.com/ppiankov/claimmark/internal/model"
	"github.com/ppiankov/claimmark/internal/verify"
)

// claimPattern matches the canonical marker shape: id then policy, with
// optional decimals and tolerance in that order
var claimPattern = regexp.MustCompile(`(?i)<claim\s+id="([^"]+)"\s+policy="([^"]+)"(?:\s+decimals="(\d+)")?(?:\s+tolerance="([^"]+)")?\s*>([\s\S]*?)</claim>`)

// SegmentKind distinguishes plain text from claim blocks
type SegmentKind string

const (
	SegmentText  SegmentKind = "text"
	SegmentClaim SegmentKind = "claim"
)

// Segment is one piece of a split message
type Segment struct {
	Kind    SegmentKind  `json:"type"`
	Content string       `json:"content,omitempty"` // Text segments only
	ID      string       `json:"id,omitempty"`      // Claim segments only
	Policy  model.Policy `json:"policy"`
	Inner   string       `json:"inner,omitempty"`
}

// ParseSegments splits text into plain text and <claim> blocks, in order.
// Text without any claim block comes back as a single text segment.
func ParseSegments(text string) []Segment {
	var segments []Segment
	last := 0

	for _, m := range claimPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			segments = append(segments, Segment{Kind: SegmentText, Content: text[last:m[0]]})
		}
		segments = append(segments, Segment{
			Kind:   SegmentClaim,
			ID:     text[m[2]:m[3]],
			Policy: verify.PolicyFromAttrs(text[m[4]:m[5]], group(text, m, 3), group(text, m, 4)),
			Inner:  text[m[10]:m[11]],
		})
		last = m[1]
	}

	if last < len(text) {
		segments = append(segments, Segment{Kind: SegmentText, Content: text[last:]})
	}
	if len(segments) == 0 {
		segments = append(segments, Segment{Kind: SegmentText, Content: text})
	}
	return segments
}

// group returns submatch i, or "" when it did not participate
func group(s string, m []int, i int) string {
	if m[2*i] < 0 {
		return ""
	}
	return s[m[2*i]:m[2*i+1]]
}
