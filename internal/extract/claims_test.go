package extract

import (
	"testing"

	"github.com/ppiankov/claimmark/internal/model"
)

func TestScanSpans_Offsets(t *testing.T) {
	content := `<p>GDP grew <claim id="gdp" policy="rounded" decimals="1">5.3%</claim> in <claim policy="year" id="yr">2022</claim>.</p>`

	spans, err := ScanSpans(content)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("Expected 2 spans, got %d", len(spans))
	}

	first := spans[0]
	if got := content[first.Start:first.End]; got != `<claim id="gdp" policy="rounded" decimals="1">5.3%</claim>` {
		t.Errorf("Expected offsets to cover the element, got %q", got)
	}
	if first.ID != "gdp" || first.Policy != model.RoundedPolicy(1) {
		t.Errorf("Expected gdp rounded(1), got %s %s", first.ID, first.Policy)
	}
	if first.Text != "5.3%" {
		t.Errorf("Expected text 5.3%%, got %q", first.Text)
	}

	second := spans[1]
	if second.ID != "yr" || second.Policy.Kind != model.KindYear {
		t.Errorf("Expected attribute order not to matter, got %s %s", second.ID, second.Policy)
	}
}

func TestScanSpans_DefaultsAndMarkup(t *testing.T) {
	content := `<claim id="a">1,234 <b>k</b></claim><CLAIM ID="b" POLICY="bogus">x &amp; y</CLAIM>`

	spans, err := ScanSpans(content)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("Expected 2 spans, got %d", len(spans))
	}

	if spans[0].Policy.Kind != model.KindAuto {
		t.Errorf("Expected missing policy to be auto, got %s", spans[0].Policy)
	}
	if spans[0].Inner != "1,234 <b>k</b>" {
		t.Errorf("Expected inner markup kept, got %q", spans[0].Inner)
	}
	if spans[0].Text != "1,234 k" {
		t.Errorf("Expected visible text, got %q", spans[0].Text)
	}

	if spans[1].ID != "b" || spans[1].Policy.Kind != model.KindAuto {
		t.Errorf("Expected case-insensitive tag with unknown policy as auto, got %s %s", spans[1].ID, spans[1].Policy)
	}
	if spans[1].Text != "x & y" {
		t.Errorf("Expected entities decoded, got %q", spans[1].Text)
	}
}

func TestScanSpans_CleansPreviousMarks(t *testing.T) {
	content := `<claim id="a" policy="exact"><span class="needs-verify">42</span><sup class="verify-pending" title="Needs verification" role="img" aria-label="Needs verification">⚠</sup></claim>`

	spans, err := ScanSpans(content)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	if spans[0].Inner != "42" || spans[0].Text != "42" {
		t.Errorf("Expected marks removed, got inner %q text %q", spans[0].Inner, spans[0].Text)
	}
}

func TestScanSpans_NestedAndUnclosed(t *testing.T) {
	content := `<claim id="outer">a <claim id="inner">b</claim> c</claim> tail <claim id="open">never closed`

	spans, err := ScanSpans(content)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(spans) != 1 {
		t.Fatalf("Expected only the outer span, got %d", len(spans))
	}
	if spans[0].ID != "outer" || spans[0].End != len(`<claim id="outer">a <claim id="inner">b</claim> c</claim>`) {
		t.Errorf("Expected outer span to close at its own end tag, got %+v", spans[0])
	}
}

func TestScanSpans_IgnoresScriptContent(t *testing.T) {
	content := `<script>var s = '<claim id="x">1</claim>';</script><claim id="y">2</claim>`

	spans, err := ScanSpans(content)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(spans) != 1 || spans[0].ID != "y" {
		t.Errorf("Expected only y, got %+v", spans)
	}
}

func TestScanSpans_None(t *testing.T) {
	spans, err := ScanSpans("plain text, no claims")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(spans) != 0 {
		t.Errorf("Expected 0 spans, got %d", len(spans))
	}
}

func TestVisibleText(t *testing.T) {
	if got := VisibleText(`12<style>b{}</style><i>.5</i>%`); got != "12.5%" {
		t.Errorf("Expected 12.5%%, got %q", got)
	}
}
