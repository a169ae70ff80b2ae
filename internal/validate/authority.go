package validate

import (
	"regexp"
	"strings"

	"github.com/ppiankov/claimmark/internal/model"
)

// Lint codes
const (
	CodeMissingID        = "missing_id"
	CodeDuplicateID      = "duplicate_id"
	CodeMissingClaim     = "missing_claim"
	CodeMissingPolicy    = "missing_policy"
	CodeUnknownPolicy    = "unknown_policy"
	CodeBadDecimals      = "bad_decimals"
	CodeBadTolerance     = "bad_tolerance"
	CodeIgnoredAttribute = "ignored_attribute"
	CodeUndatableYear    = "undatable_year"
	CodeEmptyText        = "empty_text"
)

// defaultLevels grades each code when no override is configured
var defaultLevels = map[string]model.IssueLevel{
	CodeMissingID:        model.IssueError,
	CodeDuplicateID:      model.IssueInfo,
	CodeMissingClaim:     model.IssueError,
	CodeMissingPolicy:    model.IssueInfo,
	CodeUnknownPolicy:    model.IssueWarning,
	CodeBadDecimals:      model.IssueWarning,
	CodeBadTolerance:     model.IssueWarning,
	CodeIgnoredAttribute: model.IssueInfo,
	CodeUndatableYear:    model.IssueWarning,
	CodeEmptyText:        model.IssueWarning,
}

// LevelClassifier grades lint codes using defaults plus configured overrides
type LevelClassifier struct {
	levels  map[string]model.IssueLevel
	ignored map[string]bool
	exempt  []*regexp.Regexp
}

// NewLevelClassifier creates a new classifier; nil config means defaults only
func NewLevelClassifier(config *model.LintConfig) *LevelClassifier {
	if config == nil {
		defaults := model.DefaultConfig()
		config = &defaults.Lint
	}

	classifier := &LevelClassifier{
		levels:  make(map[string]model.IssueLevel, len(defaultLevels)),
		ignored: make(map[string]bool),
	}

	for code, level := range defaultLevels {
		classifier.levels[code] = level
	}

	// Apply explicit level overrides from config
	for code, level := range config.Levels {
		if parsed, ok := parseLevelString(level); ok {
			classifier.levels[code] = parsed
		}
	}

	for _, code := range config.Ignore {
		classifier.ignored[strings.TrimSpace(code)] = true
	}

	// Compile exemption patterns; invalid ones are skipped
	for _, pattern := range config.ExemptIDs {
		if re, err := regexp.Compile(pattern); err == nil {
			classifier.exempt = append(classifier.exempt, re)
		}
	}

	return classifier
}

// Classify returns the level for code and whether it should be reported at all
func (c *LevelClassifier) Classify(code string) (model.IssueLevel, bool) {
	if c.ignored[code] {
		return "", false
	}
	if level, ok := c.levels[code]; ok {
		return level, true
	}
	return model.IssueWarning, true
}

// Exempt reports whether id matches an exemption pattern
func (c *LevelClassifier) Exempt(id string) bool {
	for _, re := range c.exempt {
		if re.MatchString(id) {
			return true
		}
	}
	return false
}

// parseLevelString converts a level string to IssueLevel
func parseLevelString(level string) (model.IssueLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error", "err":
		return model.IssueError, true
	case "warning", "warn":
		return model.IssueWarning, true
	case "info":
		return model.IssueInfo, true
	default:
		return "", false
	}
}
