package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/claimmark/internal/extract"
	"github.com/ppiankov/claimmark/internal/model"
)

func TestEscapeAttr(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt;c&gt; &quot;d&quot; &#39;e&#39;", EscapeAttr(`a & b <c> "d" 'e'`))
	assert.Equal(t, "plain", EscapeAttr("plain"))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Claim not found", Title(nil, model.PolicyOf(model.KindAuto)))

	claim := model.Claim{Value: 12.5, Country: "KEN", Date: "2022-06-01"}
	assert.Equal(t,
		`Country: KEN&#10;Date: 2022-06-01&#10;Actual: 12.5&#10;Policy: {&quot;type&quot;:&quot;rounded&quot;,&quot;decimals&quot;:1}`,
		Title(&claim, model.RoundedPolicy(1)))

	bare := model.Claim{Value: "<b>"}
	assert.Equal(t, `Actual: &lt;b&gt;&#10;Policy: {&quot;type&quot;:&quot;exact&quot;}`, Title(&bare, model.PolicyOf(model.KindExact)))

	zero := model.Claim{Value: 0}
	assert.Contains(t, Title(&zero, model.PolicyOf(model.KindAuto)), "Actual: 0")

	empty := model.Claim{}
	assert.Equal(t, `Policy: {&quot;type&quot;:&quot;auto&quot;}`, Title(&empty, model.Policy{}))
}

func TestWithMark(t *testing.T) {
	claim := model.Claim{Value: 2100}
	policy := model.PolicyOf(model.KindAbbr)

	ok := WithMark("pop", "2.1k", true, claim, policy)
	assert.Equal(t,
		`<claim id="pop" policy="abbr">2.1k<sup class="verified-mark" title="Verified data&#10;&#10;Actual: 2100&#10;Policy: {&quot;type&quot;:&quot;abbr&quot;}">✓</sup></claim>`,
		ok)

	bad := WithMark("pop", "2.2k", false, claim, policy)
	assert.Equal(t,
		`<claim id="pop" policy="abbr">2.2k<sup class="verify-pending" title="Needs verification&#10;&#10;Actual: 2100&#10;Policy: {&quot;type&quot;:&quot;abbr&quot;}" role="img" aria-label="Needs verification">⚠</sup></claim>`,
		bad)
}

func TestPending(t *testing.T) {
	assert.Equal(t,
		`<claim id="x" policy="auto">5<sup class="verify-pending" title="Needs verification" role="img" aria-label="Needs verification">⚠</sup></claim>`,
		Pending("x", "5", model.Policy{}))
}

func TestMarkersScanBack(t *testing.T) {
	claim := model.Claim{Value: 3.14159}
	out := WithMark(`a"b`, "3.14", true, claim, model.RoundedPolicy(2)) +
		" and " + WithMark("t", "101", false, claim, model.TolerancePolicy(0.005))

	spans, err := extract.ScanSpans(out)
	assert.NoError(t, err)
	if assert.Len(t, spans, 2) {
		assert.Equal(t, `a"b`, spans[0].ID)
		assert.Equal(t, model.RoundedPolicy(2), spans[0].Policy)
		assert.Equal(t, "3.14", spans[0].Inner, "previous mark is removed")
		assert.Equal(t, model.TolerancePolicy(0.005), spans[1].Policy)
		assert.Equal(t, "101", spans[1].Text)
	}
}
