package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/ppiankov/claimmark/internal/model"
)

// stdout is replaced in tests
var stdout io.Writer = os.Stdout

// Renderer writes annotated documents and reports
type Renderer struct {
	includeFooter bool
	colorize      bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter, colorize bool) *Renderer {
	return &Renderer{
		includeFooter: includeFooter,
		colorize:      colorize,
	}
}

// RenderAnnotated writes the annotated document to path, or stdout for "-" or ""
func (r *Renderer) RenderAnnotated(content, path string) error {
	return writeTo(path, func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	})
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeTo(path, func(w io.Writer) error {
		return r.WriteJSON(w, report)
	})
}

// RenderMarkdown writes the report as Markdown
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeTo(path, func(w io.Writer) error {
		return r.WriteMarkdown(w, report)
	})
}

// WriteJSON encodes the report to w
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteMarkdown renders the report as Markdown to w
func (r *Renderer) WriteMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Verification Report: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "- **Source:** %s\n", report.Source)
	fmt.Fprintf(&b, "- **Processed:** %s\n", report.ProcessedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- **Claim revision:** %d\n\n", report.Revision)

	// Score
	s := report.Score
	fmt.Fprintf(&b, "## Verification Index: %d/100 (%s confidence)\n\n", s.Index, s.Confidence)
	fmt.Fprintf(&b, "| verified | unverified | missing |\n|---|---|---|\n| %d | %d | %d |\n\n", s.Verified, s.Unverified, s.Missing)

	// Spans
	if len(report.Spans) > 0 {
		b.WriteString("## Claims\n\n")
		b.WriteString("| id | text | policy | status | value |\n|---|---|---|---|---|\n")
		for _, sp := range report.Spans {
			status := string(sp.Status)
			if sp.Via != "" && sp.Via != sp.Policy.Kind {
				status += " (" + string(sp.Via) + ")"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				cell(sp.ID), cell(sp.Text), cell(sp.Policy.String()), status, cell(sp.Value))
		}
		b.WriteString("\n")
	}

	// Signals
	if len(s.Signals) > 0 {
		b.WriteString("## Signals\n\n")
		for _, sig := range s.Signals {
			fmt.Fprintf(&b, "- **%s** [%s]: %s\n", sig.Type, sig.Severity, sig.Description)
		}
		b.WriteString("\n")
	}

	// Lint
	if len(report.Validation) > 0 {
		b.WriteString("## Lint\n\n")
		for _, v := range report.Validation {
			id := v.ID
			if id == "" {
				id = "(no id)"
			}
			fmt.Fprintf(&b, "- %s `%s` %s: %s\n", v.Level, v.Code, id, v.Message)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		p := report.Principles
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "_Principles: no false positives=%t, missing is pending=%t, deterministic=%t_\n",
			p.NoFalsePositives, p.MissingIsPending, p.Deterministic)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short human summary of the report to w
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	green, yellow, red := r.paint(color.FgGreen), r.paint(color.FgYellow), r.paint(color.FgRed)

	s := report.Score
	fmt.Fprintf(w, "%s: index %d/100 (%s), %s verified, %s unverified, %s missing\n",
		report.Subject, s.Index, s.Confidence,
		green(s.Verified), yellow(s.Unverified), red(s.Missing))

	for _, sp := range report.Spans {
		switch sp.Status {
		case model.StatusUnverified:
			fmt.Fprintf(w, "  %s %s: %q does not match %s under %s\n", yellow("⚠"), sp.ID, sp.Text, sp.Value, sp.Policy)
		case model.StatusMissing:
			fmt.Fprintf(w, "  %s %s: no claim registered\n", red("⚠"), sp.ID)
		}
	}
}

// paint returns a colouring func, or plain formatting when colour is off
func (r *Renderer) paint(attr color.Attribute) func(a ...interface{}) string {
	if !r.colorize {
		return fmt.Sprint
	}
	c := color.New(attr)
	c.EnableColor()
	return c.SprintFunc()
}

// cell escapes a value for a Markdown table cell
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func writeTo(path string, write func(io.Writer) error) error {
	if path == "" || path == StdinPath {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
