package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// StdinPath is the path that selects standard input
const StdinPath = "-"

var (
	// ErrEmptyDocument is returned when a document holds only whitespace
	ErrEmptyDocument = errors.New("document is empty")

	// ErrDocumentTooLarge is returned when a document exceeds the byte limit
	ErrDocumentTooLarge = errors.New("document exceeds size limit")
)

// stdin is replaced in tests
var stdin io.Reader = os.Stdin

// Document is one input to annotate
type Document struct {
	Content string
	Subject string // Human-readable name derived from the source
	Source  string // Path the content was read from ("-" for stdin)
}

// Loader reads documents from files or stdin
type Loader struct {
	maxBytes int64
}

// NewLoader creates a new Loader. A non-positive limit means no limit.
func NewLoader(maxBytes int64) *Loader {
	return &Loader{maxBytes: maxBytes}
}

// Load reads the document at path, or stdin when path is "-"
func (l *Loader) Load(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if path == StdinPath {
		return l.Read(stdin, StdinPath)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	return l.Read(f, path)
}

// Read loads a document from r; source names where it came from
func (l *Loader) Read(r io.Reader, source string) (*Document, error) {
	// Read one byte past the limit to detect oversized documents
	if l.maxBytes > 0 {
		r = io.LimitReader(r, l.maxBytes+1)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if l.maxBytes > 0 && int64(len(body)) > l.maxBytes {
		return nil, fmt.Errorf("read %s: %w (%d bytes)", source, ErrDocumentTooLarge, l.maxBytes)
	}
	if strings.TrimSpace(string(body)) == "" {
		return nil, fmt.Errorf("read %s: %w", source, ErrEmptyDocument)
	}

	return &Document{
		Content: string(body),
		Subject: extractSubject(source),
		Source:  source,
	}, nil
}

// extractSubject derives a human-readable subject from a file path
func extractSubject(path string) string {
	if path == StdinPath || path == "" {
		return "stdin"
	}

	name := filepath.Base(path)

	// Remove file extensions
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}

	// De-slugify: replace underscores and hyphens with spaces
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")

	return name
}
