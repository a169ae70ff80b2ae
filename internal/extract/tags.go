package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ppiankov/claimmark/internal/model"
	"github.com/ppiankov/claimmark/internal/verify"
)

// ExtractTags lists every <claim> element in an HTML document, in document order.
// Tag holds the element as re-serialized by the parser, not the source bytes;
// use ScanSpans when offsets into the source content are needed.
func ExtractTags(content string) ([]model.ClaimTag, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	var tags []model.ClaimTag
	var outerErr error
	doc.Find("claim").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		outer, err := goquery.OuterHtml(s)
		if err != nil {
			outerErr = fmt.Errorf("serialize claim: %w", err)
			return false
		}

		id, _ := s.Attr("id")
		policy, _ := s.Attr("policy")
		decimals, _ := s.Attr("decimals")
		tolerance, _ := s.Attr("tolerance")

		tags = append(tags, model.ClaimTag{
			Tag:       outer,
			ID:        id,
			Policy:    verify.PolicyFromAttrs(policy, decimals, tolerance),
			RawPolicy: policy,
			Decimals:  decimals,
			Tolerance: tolerance,
			Value:     s.Text(),
		})
		return true
	})
	if outerErr != nil {
		return nil, outerErr
	}

	return tags, nil
}
