package adapters

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/ppiankov/claimmark/internal/model"
)

// DataPointOptions locates claims inside a tool result that carries a list
// of data points
type DataPointOptions struct {
	DataKey    string // Key holding the array of points (default "data")
	ClaimIDKey string // Point field holding the claim id
	ValueKey   string // Point field holding the value
	CountryKey string // Optional point field for country
	DateKey    string // Optional point field for date
}

// DataPointAdapter is the generic adapter for list-of-points tool outputs
type DataPointAdapter struct {
	tool string
	opts DataPointOptions
}

// NewDataPointAdapter creates a data-point adapter for tool
func NewDataPointAdapter(tool string, opts DataPointOptions) *DataPointAdapter {
	if opts.DataKey == "" {
		opts.DataKey = "data"
	}
	return &DataPointAdapter{tool: tool, opts: opts}
}

// Tool returns the tool name
func (a *DataPointAdapter) Tool() string {
	return a.tool
}

// Options returns the effective options
func (a *DataPointAdapter) Options() DataPointOptions {
	return a.opts
}

// Extract reads claim entries from raw tool output.
// A result without an array under DataKey yields no entries; points with a
// missing, null or empty id are skipped.
func (a *DataPointAdapter) Extract(raw []byte) ([]model.ClaimEntry, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%s output: invalid JSON", a.tool)
	}

	// Field lookups go through Map so keys are matched literally, not as paths
	points := gjson.ParseBytes(raw).Map()[a.opts.DataKey]
	if !points.IsArray() {
		return nil, nil
	}

	var entries []model.ClaimEntry
	points.ForEach(func(_, point gjson.Result) bool {
		fields := point.Map()

		id := fields[a.opts.ClaimIDKey]
		if !present(id) || id.String() == "" {
			return true
		}

		claim := model.Claim{Value: fields[a.opts.ValueKey].Value()}
		if a.opts.CountryKey != "" && present(fields[a.opts.CountryKey]) {
			claim.Country = fields[a.opts.CountryKey].String()
		}
		if a.opts.DateKey != "" && present(fields[a.opts.DateKey]) {
			claim.Date = fields[a.opts.DateKey].String()
		}

		entries = append(entries, model.ClaimEntry{ID: id.String(), Claim: claim})
		return true
	})

	return entries, nil
}

// present reports whether a field exists and is not null
func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}
