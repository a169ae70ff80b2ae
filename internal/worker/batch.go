package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/claimmark/internal/pipeline"
	"github.com/ppiankov/claimmark/internal/util"
)

// Annotator annotates one loaded document
type Annotator interface {
	Annotate(ctx context.Context, doc *pipeline.Document) (*pipeline.Result, error)
}

// Loader reads a document from a path
type Loader interface {
	Load(ctx context.Context, path string) (*pipeline.Document, error)
}

// AnnotateJob loads and annotates one document
type AnnotateJob struct {
	Path      string
	Loader    Loader
	Annotator Annotator
}

// Execute executes the annotate job
func (j *AnnotateJob) Execute(ctx context.Context) Result {
	doc, err := j.Loader.Load(ctx, j.Path)
	if err != nil {
		return &AnnotateResult{Path: j.Path, Error: err}
	}

	result, err := j.Annotator.Annotate(ctx, doc)
	if err != nil {
		return &AnnotateResult{Path: j.Path, Error: fmt.Errorf("annotate: %w", err)}
	}

	return &AnnotateResult{Path: j.Path, Result: result}
}

// AnnotateResult is the outcome for one document in a batch
type AnnotateResult struct {
	Path   string
	Result *pipeline.Result
	Error  error
}

// GetError returns the error from the annotate result
func (r *AnnotateResult) GetError() error {
	return r.Error
}

// BatchProcessor annotates many documents concurrently
type BatchProcessor struct {
	annotator   Annotator
	loader      Loader
	concurrency int
	log         logrus.FieldLogger
}

// NewBatchProcessor creates a new batch processor. A nil logger discards output.
func NewBatchProcessor(annotator Annotator, loader Loader, concurrency int, log logrus.FieldLogger) *BatchProcessor {
	return &BatchProcessor{
		annotator:   annotator,
		loader:      loader,
		concurrency: concurrency,
		log:         util.LoggerOr(log),
	}
}

// ProcessPaths annotates every path and returns results in input order
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*AnnotateResult {
	if len(paths) == 0 {
		return []*AnnotateResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&AnnotateJob{
			Path:      path,
			Loader:    b.loader,
			Annotator: b.annotator,
		})
	}

	results := pool.Wait()

	out := make([]*AnnotateResult, len(paths))
	for i, path := range paths {
		var r *AnnotateResult
		if i < len(results) {
			r, _ = results[i].(*AnnotateResult)
		}
		if r == nil {
			// Cancelled before the job ran
			cause := context.Cause(ctx)
			if cause == nil {
				cause = context.Canceled
			}
			r = &AnnotateResult{Path: path, Error: fmt.Errorf("annotate %s: %w", path, cause)}
		}
		out[i] = r

		entry := b.log.WithField("path", path)
		if r.Error != nil {
			entry.WithError(r.Error).Warn("document failed")
		} else {
			entry.WithField("index", r.Result.Report.Score.Index).Debug("document done")
		}
	}

	return out
}

// ProcessFile reads paths from a list file and annotates them
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*AnnotateResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads document paths from a file (one per line).
// Blank lines and lines starting with # are skipped; duplicates are dropped.
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

// ExpandPatterns expands glob patterns into a deduplicated path list.
// A pattern without matches is kept as a literal path so loading reports it.
func ExpandPatterns(patterns []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			add(pattern)
			continue
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}

	return paths, nil
}
