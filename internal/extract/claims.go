package extract

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/claimmark/internal/model"
	"github.com/ppiankov/claimmark/internal/verify"
)

var (
	// Marks left by an earlier verification pass
	staleMarkPattern   = regexp.MustCompile(`(?is)<sup\b[^>]*\bclass="(?:verified-mark|verify-pending)"[^>]*>.*?</sup>`)
	needsVerifyPattern = regexp.MustCompile(`(?is)<span\b[^>]*\bclass="needs-verify"[^>]*>(.*?)</span>`)
)

// ScanSpans locates every <claim> element in content with its exact byte offsets.
//
// Attribute order is free and a missing policy means auto. Nested claim
// elements belong to the outermost one; an element still open at the end of
// input is ignored.
func ScanSpans(content string) ([]model.ClaimSpan, error) {
	z := html.NewTokenizer(strings.NewReader(content))

	var (
		spans  []model.ClaimSpan
		open   *model.ClaimSpan
		inner  int // offset where the open element's inner markup starts
		depth  int
		offset int
	)

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			return nil, fmt.Errorf("scan claims: %w", z.Err())
		}

		start := offset
		offset += len(z.Raw())

		name, hasAttr := z.TagName()
		if string(name) != "claim" {
			continue
		}

		switch tt {
		case html.StartTagToken:
			depth++
			if depth > 1 {
				continue
			}
			attrs := readAttrs(z, hasAttr)
			open = &model.ClaimSpan{
				Start:  start,
				ID:     attrs["id"],
				Policy: verify.PolicyFromAttrs(attrs["policy"], attrs["decimals"], attrs["tolerance"]),
			}
			inner = offset

		case html.EndTagToken:
			if depth == 0 {
				continue
			}
			depth--
			if depth > 0 {
				continue
			}
			open.End = offset
			open.Inner = CleanInner(content[inner:start])
			open.Text = VisibleText(open.Inner)
			spans = append(spans, *open)
			open = nil
		}
	}

	return spans, nil
}

func readAttrs(z *html.Tokenizer, more bool) map[string]string {
	attrs := make(map[string]string)
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		if _, seen := attrs[string(key)]; !seen {
			attrs[string(key)] = string(val)
		}
	}
	return attrs
}

// CleanInner removes verification marks left by an earlier pass so a span can be re-verified
func CleanInner(inner string) string {
	inner = staleMarkPattern.ReplaceAllString(inner, "")
	return needsVerifyPattern.ReplaceAllString(inner, "$1")
}

// VisibleText returns the text content of an HTML fragment, skipping scripts and styles
func VisibleText(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
	})
	if err != nil {
		return html.UnescapeString(fragment)
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			// Skip script, style, noscript tags
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range nodes {
		walk(n)
	}
	return buf.String()
}
