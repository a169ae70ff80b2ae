package model

import "time"

// Config holds all runtime settings
type Config struct {
	Input       InputConfig       `yaml:"input" mapstructure:"input"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	Lint        LintConfig        `yaml:"lint" mapstructure:"lint"`
	Extractors  []ExtractorConfig `yaml:"extractors" mapstructure:"extractors"`
}

// InputConfig limits document loading
type InputConfig struct {
	MaxBytes int64 `yaml:"max_bytes" mapstructure:"max_bytes"`
}

// CacheConfig controls the annotation cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"` // Empty means ~/.claimmark/cache
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
	Color         bool `yaml:"color" mapstructure:"color"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text, json
}

// LintConfig controls claim tag linting
type LintConfig struct {
	Levels    map[string]string `yaml:"levels,omitempty" mapstructure:"levels"`         // Per-code level override (e.g., unknown_policy: error)
	Ignore    []string          `yaml:"ignore,omitempty" mapstructure:"ignore"`         // Codes to drop
	ExemptIDs []string          `yaml:"exempt_ids,omitempty" mapstructure:"exempt_ids"` // Id patterns (regexp) never reported as missing
}

// ExtractorConfig declares a data-point extractor for a tool's output
type ExtractorConfig struct {
	Tool       string `yaml:"tool" mapstructure:"tool"`
	DataKey    string `yaml:"data_key,omitempty" mapstructure:"data_key"`
	ClaimIDKey string `yaml:"claim_id_key" mapstructure:"claim_id_key"`
	ValueKey   string `yaml:"value_key" mapstructure:"value_key"`
	CountryKey string `yaml:"country_key,omitempty" mapstructure:"country_key"`
	DateKey    string `yaml:"date_key,omitempty" mapstructure:"date_key"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		Input: InputConfig{
			MaxBytes: 5_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
			Color:         true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}
