package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimmark/internal/model"
	"github.com/ppiankov/claimmark/internal/pipeline"
)

// ErrNotVerified is returned in strict mode when any span is not verified
var ErrNotVerified = errors.New("some claims could not be verified")

var (
	outJSON    string
	outMD      string
	outDoc     string
	strict     bool
	runTimeout time.Duration
)

// verifyCmd checks a document and reports, without writing the annotated copy
var verifyCmd = &cobra.Command{
	Use:   "verify <file|->",
	Short: "Check every claim in a document and print a summary",
	Long: `Verify scans a document for <claim> elements, compares each displayed
value with its registered claim and prints a summary. Nothing is rewritten.

Example:
  claimmark verify report.html --claims claims.json
  claimmark verify report.html -c claims.json --json report.json --strict
  cat report.html | claimmark verify - -c claims.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnnotate(cmd, args[0], false)
	},
}

// annotateCmd writes the document back with verification marks
var annotateCmd = &cobra.Command{
	Use:   "annotate <file|->",
	Short: "Write the document with verified and pending marks",
	Long: `Annotate replaces each <claim> element with a copy carrying a verified (✓)
or needs-verification (⚠) mark and a tooltip describing the source datum.
Content outside claim elements is kept byte for byte, and annotated output
can be annotated again.

Example:
  claimmark annotate draft.html -c claims.json -o draft.checked.html
  claimmark annotate draft.html -c claims.json > out.html`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnnotate(cmd, args[0], true)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(annotateCmd)

	for _, c := range []*cobra.Command{verifyCmd, annotateCmd} {
		c.Flags().StringVar(&outJSON, "json", "", "output JSON report path")
		c.Flags().StringVar(&outMD, "md", "", "output Markdown report path")
		c.Flags().BoolVar(&strict, "strict", false, "fail unless every claim is verified")
		c.Flags().DurationVar(&runTimeout, "timeout", time.Minute, "overall timeout")
	}
	annotateCmd.Flags().StringVarP(&outDoc, "output", "o", "-", "annotated document path (- for stdout)")
}

func runAnnotate(cmd *cobra.Command, path string, writeDoc bool) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	a, err := newApp()
	if err != nil {
		return err
	}

	if a.cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Document: %s\n", path)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", a.cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	// 1. Load
	doc, err := a.loader().Load(ctx, path)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	// 2. Annotate
	p, err := a.pipeline()
	if err != nil {
		return err
	}
	result, err := p.Annotate(ctx, doc)
	if err != nil {
		return fmt.Errorf("annotate failed: %w", err)
	}

	if a.cfg.Output.Verbose {
		if result.Cached {
			fmt.Fprintf(os.Stderr, "✓ Served from cache\n")
		}
		fmt.Fprintf(os.Stderr, "✓ Checked %d claim spans\n", len(result.Report.Spans))
		fmt.Fprintf(os.Stderr, "✓ %d lint findings\n", len(result.Report.Validation))
		fmt.Fprintln(os.Stderr)
	}

	// 3. Render
	r := a.renderer()
	if writeDoc {
		if err := r.RenderAnnotated(result.Content, outDoc); err != nil {
			return fmt.Errorf("write document: %w", err)
		}
	}
	if err := renderReports(r, result.Report, outJSON, outMD, a.cfg.Output.Verbose); err != nil {
		return err
	}
	r.RenderSummary(os.Stderr, result.Report)

	if strict && !allVerified(result.Report) {
		return ErrNotVerified
	}
	return nil
}

func renderReports(r *pipeline.Renderer, report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := r.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := r.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	return nil
}

func allVerified(report *model.Report) bool {
	_, unverified, missing := report.Counts()
	return unverified == 0 && missing == 0
}
