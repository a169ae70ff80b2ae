// Package render builds the verified and pending markers spliced into documents.
package render

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ppiankov/claimmark/internal/model"
	"github.com/ppiankov/claimmark/internal/verify"
)

const pendingLabel = "Needs verification"

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeAttr escapes s for use inside a double-quoted HTML attribute
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// Title builds the tooltip text for a claim, already escaped for an attribute.
// Lines are separated by &#10;. A nil claim gives "Claim not found".
func Title(claim *model.Claim, policy model.Policy) string {
	if claim == nil {
		return "Claim not found"
	}

	var lines []string
	if claim.Country != "" {
		lines = append(lines, "Country: "+claim.Country)
	}
	if claim.Date != "" {
		lines = append(lines, "Date: "+claim.Date)
	}
	if v := verify.NewValue(claim.Value); !v.IsZero() {
		lines = append(lines, "Actual: "+v.String())
	}
	if b, err := json.Marshal(policy); err == nil {
		lines = append(lines, "Policy: "+string(b))
	}

	return strings.ReplaceAll(EscapeAttr(strings.Join(lines, "\n")), "\n", "&#10;")
}

// WithMark wraps inner in a claim tag followed by the verified or pending mark
func WithMark(id, inner string, ok bool, claim model.Claim, policy model.Policy) string {
	title := Title(&claim, policy)

	var b strings.Builder
	openTag(&b, id, policy)
	b.WriteString(inner)
	if ok {
		b.WriteString(`<sup class="verified-mark" title="Verified data&#10;&#10;`)
		b.WriteString(title)
		b.WriteString(`">✓</sup>`)
	} else {
		b.WriteString(`<sup class="verify-pending" title="` + pendingLabel + `&#10;&#10;`)
		b.WriteString(title)
		b.WriteString(`" role="img" aria-label="` + pendingLabel + `">⚠</sup>`)
	}
	b.WriteString("</claim>")
	return b.String()
}

// Pending wraps inner for a claim id that has no registered claim
func Pending(id, inner string, policy model.Policy) string {
	var b strings.Builder
	openTag(&b, id, policy)
	b.WriteString(inner)
	b.WriteString(`<sup class="verify-pending" title="` + pendingLabel + `" role="img" aria-label="` + pendingLabel + `">⚠</sup>`)
	b.WriteString("</claim>")
	return b.String()
}

// openTag writes <claim id=".." policy=".."> with decimals or tolerance when the
// policy needs them, so annotated output can be scanned again
func openTag(b *strings.Builder, id string, policy model.Policy) {
	kind := policy.Kind
	if kind == "" {
		kind = model.KindAuto
	}

	b.WriteString(`<claim id="`)
	b.WriteString(EscapeAttr(id))
	b.WriteString(`" policy="`)
	b.WriteString(string(kind))
	b.WriteString(`"`)
	switch kind {
	case model.KindRounded:
		b.WriteString(` decimals="` + strconv.Itoa(policy.Decimals) + `"`)
	case model.KindTolerance:
		b.WriteString(` tolerance="` + strconv.FormatFloat(policy.Tolerance, 'f', -1, 64) + `"`)
	}
	b.WriteString(">")
}
