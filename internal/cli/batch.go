package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/claimmark/internal/worker"
)

var (
	listFile     string
	outputDir    string
	batchTimeout time.Duration
	noFooter     bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [pattern...]",
	Short: "Annotate many documents in parallel",
	Long: `Batch annotates many documents concurrently:
- Documents come from glob patterns and/or a list file (one path per line)
- Each document gets an annotated copy plus JSON and Markdown reports
- A failing document does not stop the others

Example:
  claimmark batch 'docs/*.html' -c claims.json
  claimmark batch --list docs.txt -c claims.json --workers 8 --output-dir ./checked`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&listFile, "list", "", "file listing document paths (one per line, # comments)")
	batchCmd.Flags().Int("workers", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./claimmark-out", "output directory for annotated documents and reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().Bool("strict", false, "fail unless every claim in every document is verified")

	_ = viper.BindPFlag("concurrency.workers", batchCmd.Flags().Lookup("workers"))
}

func runBatch(cmd *cobra.Command, args []string) error {
	if listFile == "" && len(args) == 0 {
		return fmt.Errorf("no documents: pass glob patterns or --list")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	a, err := newApp()
	if err != nil {
		return err
	}
	if noFooter {
		a.cfg.Output.IncludeFooter = false
	}

	// 1. Collect paths
	paths, err := worker.ExpandPatterns(args)
	if err != nil {
		return err
	}
	if listFile != "" {
		listed, err := worker.ReadPathsFromFile(listFile)
		if err != nil {
			return fmt.Errorf("read list: %w", err)
		}
		paths = mergePaths(paths, listed)
	}

	workers := a.cfg.Concurrency.Workers

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Claimmark Batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Documents:    %d\n", len(paths))
	fmt.Fprintf(os.Stderr, "  Claims:       %d\n", a.store.Len())
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// 2. Annotate
	p, err := a.pipeline()
	if err != nil {
		return err
	}
	processor := worker.NewBatchProcessor(p, a.loader(), workers, a.log)
	results := processor.ProcessPaths(ctx, paths)

	// 3. Write outputs
	r := a.renderer()
	successCount, failureCount, verifiedCount := 0, 0, 0
	used := make(map[string]int)

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		slug := uniqueSlug(used, sanitizeFilename(result.Path))
		ext := filepath.Ext(result.Path)
		if ext == "" {
			ext = ".html"
		}

		if err := r.RenderAnnotated(result.Result.Content, filepath.Join(outputDir, slug+ext)); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write document: %v\n", result.Path, err)
			continue
		}
		if err := renderReports(r, result.Result.Report,
			filepath.Join(outputDir, slug+".json"),
			filepath.Join(outputDir, slug+".md"), false); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, err)
			continue
		}

		successCount++
		if allVerified(result.Result.Report) {
			verifiedCount++
		}
		fmt.Fprintf(os.Stderr, "✓ %s (index: %d/100)\n", result.Path, result.Result.Report.Score.Index)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:           %d documents\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:         %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Fully verified:  %d\n", verifiedCount)
	fmt.Fprintf(os.Stderr, "  Failures:        %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:          %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d documents failed", failureCount, len(results))
	}
	if strictBatch(cmd) && verifiedCount < successCount {
		return ErrNotVerified
	}
	return nil
}

func strictBatch(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("strict")
	return v
}

// mergePaths appends extra to paths, skipping duplicates
func mergePaths(paths, extra []string) []string {
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		seen[p] = true
	}
	for _, p := range extra {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	return paths
}

// sanitizeFilename turns a document path into a flat file name without extension
func sanitizeFilename(path string) string {
	s := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	// Replace problematic characters
	s = strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	).Replace(s)

	if s == "" || s == "." || s == "-" {
		s = "stdin"
	}

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}

	return s
}

// uniqueSlug suffixes repeated names so documents never overwrite each other
func uniqueSlug(used map[string]int, slug string) string {
	used[slug]++
	if n := used[slug]; n > 1 {
		return fmt.Sprintf("%s-%d", slug, n)
	}
	return slug
}
