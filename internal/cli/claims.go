package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimmark/internal/claims"
	"github.com/ppiankov/claimmark/internal/extract/adapters"
)

var (
	ingestTool  string
	initialFile string
)

// claimsCmd groups commands that build claims files from tool output
var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "Build and inspect claims files",
	Long: `Claims commands turn raw tool output into a claims file usable with
--claims. Output is a JSON list of {id, claim} entries; claims already loaded
with --claims are included.`,
}

var claimsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the loaded claims",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), a.store.Entries())
	},
}

var claimsExtractCmd = &cobra.Command{
	Use:   "extract <file>...",
	Short: "Extract claims from raw tool output",
	Long: `Extract runs the extractor registered for --tool over each file. The
Data360 extractor is built in; more can be declared in the extractors
section of the config file.

Example:
  claimmark claims extract data360.json > claims.json
  claimmark claims extract --tool indicators_get out1.json out2.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		for _, path := range args {
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read tool output: %w", err)
			}
			n, err := a.store.Ingest(ingestTool, raw)
			if errors.Is(err, claims.ErrNoExtractor) {
				return fmt.Errorf("%w (known tools: %v)", err, a.registry.Tools())
			}
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if a.cfg.Output.Verbose {
				fmt.Fprintf(os.Stderr, "✓ %s: %d claims\n", path, n)
			}
		}

		return writeJSON(cmd.OutOrStdout(), a.store.Entries())
	},
}

var claimsSessionCmd = &cobra.Command{
	Use:   "session <messages.json>",
	Short: "Extract claims from Data360 tool calls in a chat transcript",
	Long: `Session scans a JSON array of chat messages for Data360 tool results,
both top-level tool parts and parts wrapped in data-thinking, and extracts
their data points. When the transcript is empty, --initial is used instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		messages, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read messages: %w", err)
		}

		var initial []byte
		if initialFile != "" {
			if initial, err = os.ReadFile(initialFile); err != nil {
				return fmt.Errorf("read initial messages: %w", err)
			}
		}

		n, err := adapters.IngestSession(a.store, messages, initial)
		if err != nil {
			return fmt.Errorf("ingest session: %w", err)
		}
		if a.cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ %d claims from session\n", n)
		}

		return writeJSON(cmd.OutOrStdout(), a.store.Entries())
	},
}

func init() {
	rootCmd.AddCommand(claimsCmd)
	claimsCmd.AddCommand(claimsListCmd)
	claimsCmd.AddCommand(claimsExtractCmd)
	claimsCmd.AddCommand(claimsSessionCmd)

	claimsExtractCmd.Flags().StringVar(&ingestTool, "tool", adapters.Data360Tool, "tool whose output is being read")
	claimsSessionCmd.Flags().StringVar(&initialFile, "initial", "", "messages to use when the transcript is empty")
}
