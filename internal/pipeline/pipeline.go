package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/claimmark/internal/cache"
	"github.com/ppiankov/claimmark/internal/claims"
	"github.com/ppiankov/claimmark/internal/extract"
	"github.com/ppiankov/claimmark/internal/model"
	"github.com/ppiankov/claimmark/internal/render"
	"github.com/ppiankov/claimmark/internal/score"
	"github.com/ppiankov/claimmark/internal/util"
	"github.com/ppiankov/claimmark/internal/validate"
	"github.com/ppiankov/claimmark/internal/verify"
)

// nowFunc is replaced in tests
var nowFunc = time.Now

// ProcessClaim verifies one claim span and returns its replacement markup.
// Earlier verification marks are stripped from inner first. A nil claim
// renders the pending marker without running the comparator.
func ProcessClaim(id, inner string, claim *model.Claim, policy model.Policy) (string, model.SpanResult) {
	clean := extract.CleanInner(inner)
	text := extract.VisibleText(clean)

	result := model.SpanResult{
		ID:     id,
		Text:   strings.TrimSpace(text),
		Policy: policy,
	}

	if claim == nil {
		result.Status = model.StatusMissing
		return render.Pending(id, clean, policy), result
	}

	verdict := verify.CompareDetailed(text, *claim, policy)

	result.Value = verify.NewValue(claim.Value).String()
	result.Country = claim.Country
	result.Date = claim.Date
	if verdict.Match {
		result.Status = model.StatusVerified
		result.Via = verdict.Via
	} else {
		result.Status = model.StatusUnverified
	}

	return render.WithMark(id, clean, verdict.Match, *claim, policy), result
}

// Result is the outcome of annotating one document
type Result struct {
	Report  *model.Report `json:"report"`
	Content string        `json:"content"` // Annotated document
	Cached  bool          `json:"-"`
}

// Pipeline orchestrates scanning, verification, linting and scoring
type Pipeline struct {
	claims    *claims.Store
	cache     cache.Cache
	validator *validate.Validator
	scorer    *score.Scorer
	lintKey   string
	log       logrus.FieldLogger
}

// NewPipeline creates a new pipeline over store. A nil cache disables caching
// and a nil logger discards output.
func NewPipeline(cfg *model.Config, store *claims.Store, c cache.Cache, log logrus.FieldLogger) *Pipeline {
	if c == nil {
		c = cache.Nop{}
	}

	// Lint settings change findings, so they are part of the cache key
	lintKey, _ := json.Marshal(cfg.Lint)

	return &Pipeline{
		claims:    store,
		cache:     c,
		validator: validate.NewValidator(store, &cfg.Lint),
		scorer:    score.NewScorer(),
		lintKey:   string(lintKey),
		log:       util.LoggerOr(log),
	}
}

// Annotate verifies every claim span in doc and returns the report with the
// annotated content. Content outside claim spans is kept byte for byte.
func (p *Pipeline) Annotate(ctx context.Context, doc *Document) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := p.log.WithField("source", doc.Source)
	key := cache.CacheKey(doc.Content, p.claims.Fingerprint(), p.lintKey)

	// 1. Cached result for identical content and claims
	if cached, ok := p.lookup(key); ok {
		cached.Report.Subject = doc.Subject
		cached.Report.Source = doc.Source
		log.Debug("cache hit")
		return cached, nil
	}

	revision := p.claims.Revision()

	// 2. Locate claim spans
	spans, err := extract.ScanSpans(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("scan spans: %w", err)
	}

	// 3. Verify each span and splice its replacement in
	var (
		b       strings.Builder
		results = make([]model.SpanResult, 0, len(spans))
		last    int
	)
	b.Grow(len(doc.Content))
	for _, span := range spans {
		var claim *model.Claim
		if c, ok := p.claims.Get(span.ID); ok {
			claim = &c
		}

		replacement, result := ProcessClaim(span.ID, span.Inner, claim, span.Policy)
		results = append(results, result)

		b.WriteString(doc.Content[last:span.Start])
		b.WriteString(replacement)
		last = span.End
	}
	b.WriteString(doc.Content[last:])

	// 4. Lint the claim tags
	tags, err := extract.ExtractTags(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("extract tags: %w", err)
	}
	validation, err := p.validator.Validate(ctx, tags)
	if err != nil {
		return nil, fmt.Errorf("lint: %w", err)
	}

	// 5. Score
	scoreResult := p.scorer.Calculate(results, validation)

	report := &model.Report{
		Subject:     doc.Subject,
		Source:      doc.Source,
		ProcessedAt: nowFunc().UTC(),
		Revision:    revision,
		Spans:       results,
		Validation:  validation,
		Score:       scoreResult,
		Principles:  model.DefaultPrinciples(),
	}

	result := &Result{Report: report, Content: b.String()}
	p.store(key, result)

	log.WithFields(logrus.Fields{
		"spans":    len(results),
		"verified": scoreResult.Verified,
		"index":    scoreResult.Index,
	}).Info("annotated document")

	return result, nil
}

func (p *Pipeline) lookup(key string) (*Result, bool) {
	data, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}

	var r Result
	if err := json.Unmarshal(data, &r); err != nil || r.Report == nil {
		p.log.WithError(err).Warn("discarding unreadable cache entry")
		_ = p.cache.Delete(key)
		return nil, false
	}
	r.Cached = true
	return &r, true
}

func (p *Pipeline) store(key string, r *Result) {
	data, err := json.Marshal(r)
	if err != nil {
		p.log.WithError(err).Warn("cannot encode result for cache")
		return
	}
	if err := p.cache.Set(key, data, 0); err != nil {
		p.log.WithError(err).Warn("cache write failed")
	}
}
