package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimmark/internal/extract"
	"github.com/ppiankov/claimmark/internal/model"
	"github.com/ppiankov/claimmark/internal/validate"
	"github.com/ppiankov/claimmark/internal/verify"
)

// ErrLintFailed is returned by lint when any finding is an error
var ErrLintFailed = errors.New("lint found errors")

var segmentsCmd = &cobra.Command{
	Use:   "segments <file|->",
	Short: "Split a document into text and claim segments (JSON)",
	Long: `Segments splits text into plain-text and claim segments for custom
renderers. Claim elements must be written as
<claim id=".." policy=".." [decimals=".."] [tolerance=".."]>...</claim>.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, doc, err := loadOne(cmd, args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), extract.ParseSegments(doc))
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags <file|->",
	Short: "List every <claim> element in a document (JSON)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, doc, err := loadOne(cmd, args[0])
		if err != nil {
			return err
		}
		tags, err := extract.ExtractTags(doc)
		if err != nil {
			return fmt.Errorf("extract tags: %w", err)
		}
		return writeJSON(cmd.OutOrStdout(), tags)
	},
}

var lintCmd = &cobra.Command{
	Use:   "lint <file|->",
	Short: "Check claim elements for missing ids, unknown policies and bad attributes",
	Long: `Lint checks every <claim> element without verifying values. With --claims
it also reports ids that have no registered claim and year policies over
claims that carry no date.

Levels and ignored codes come from the lint section of the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, doc, err := loadOne(cmd, args[0])
		if err != nil {
			return err
		}

		tags, err := extract.ExtractTags(doc)
		if err != nil {
			return fmt.Errorf("extract tags: %w", err)
		}

		var lookup validate.ClaimLookup
		if len(claimFiles) > 0 {
			lookup = a.store
		}
		results, err := validate.NewValidator(lookup, &a.cfg.Lint).Validate(cmd.Context(), tags)
		if err != nil {
			return err
		}

		if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
			return err
		}
		if validate.HasErrors(results) {
			return ErrLintFailed
		}
		return nil
	},
}

var (
	cmpValue     string
	cmpPolicy    string
	cmpDecimals  string
	cmpTolerance string
	cmpCountry   string
	cmpDate      string
)

var compareCmd = &cobra.Command{
	Use:   "compare <text>",
	Short: "Compare one displayed value with a claim value",
	Long: `Compare runs a single comparison and prints the verdict, including which
auto step matched.

Example:
  claimmark compare "2.1k" --value 2100
  claimmark compare "5.3%" --value 0.053 --policy percent
  claimmark compare "in 2022" --value x --date 2022-06-01 --policy year`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		policy := verify.PolicyFromAttrs(cmpPolicy, cmpDecimals, cmpTolerance)
		claim := model.Claim{Value: claimValue(cmpValue), Country: cmpCountry, Date: cmpDate}

		verdict := verify.CompareDetailed(args[0], claim, policy)
		return writeJSON(cmd.OutOrStdout(), struct {
			Text    string         `json:"text"`
			Claim   model.Claim    `json:"claim"`
			Policy  model.Policy   `json:"policy"`
			Verdict verify.Verdict `json:"verdict"`
		}{args[0], claim, policy, verdict})
	},
}

func init() {
	rootCmd.AddCommand(segmentsCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&cmpValue, "value", "", "claim value (JSON scalar; bare text is a string)")
	compareCmd.Flags().StringVar(&cmpPolicy, "policy", "auto", "policy type")
	compareCmd.Flags().StringVar(&cmpDecimals, "decimals", "", "decimals for the rounded policy")
	compareCmd.Flags().StringVar(&cmpTolerance, "tolerance", "", "relative tolerance for the tolerance policy")
	compareCmd.Flags().StringVar(&cmpCountry, "country", "", "claim country")
	compareCmd.Flags().StringVar(&cmpDate, "date", "", "claim date (YYYY-MM-DD)")
	_ = compareCmd.MarkFlagRequired("value")
}

// claimValue decodes a flag as a JSON scalar, falling back to the raw string
func claimValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		switch v.(type) {
		case float64, string, bool:
			return v
		}
	}
	return raw
}

// loadOne builds the app and reads a single document
func loadOne(cmd *cobra.Command, path string) (*app, string, error) {
	a, err := newApp()
	if err != nil {
		return nil, "", err
	}
	doc, err := a.loader().Load(cmd.Context(), path)
	if err != nil {
		return nil, "", fmt.Errorf("load failed: %w", err)
	}
	return a, doc.Content, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
