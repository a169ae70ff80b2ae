package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/ppiankov/claimmark/internal/model"
)

func TestSanitizeFilename(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"docs/kenya report.html", "kenya-report"},
		{"a:b*c?.md", "a_b_c_"},
		{"-", "stdin"},
		{"plain", "plain"},
	}

	for _, tc := range testCases {
		if got := sanitizeFilename(tc.input); got != tc.expected {
			t.Errorf("sanitizeFilename(%q): expected %q, got %q", tc.input, tc.expected, got)
		}
	}

	long := sanitizeFilename(strings.Repeat("x", 150) + ".html")
	if len(long) != 100 {
		t.Errorf("Expected long names cut to 100 bytes, got %d", len(long))
	}
}

func TestUniqueSlug(t *testing.T) {
	used := make(map[string]int)
	got := []string{uniqueSlug(used, "a"), uniqueSlug(used, "b"), uniqueSlug(used, "a")}
	expected := []string{"a", "b", "a-2"}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Expected %s at %d, got %s", expected[i], i, got[i])
		}
	}
}

func TestMergePaths(t *testing.T) {
	got := mergePaths([]string{"a", "b"}, []string{"b", "c", "c"})
	if strings.Join(got, ",") != "a,b,c" {
		t.Errorf("Expected a,b,c, got %v", got)
	}
}

func TestClaimValue(t *testing.T) {
	testCases := []struct {
		input    string
		expected any
	}{
		{"2100", float64(2100)},
		{`"2100"`, "2100"},
		{"true", true},
		{"Kenya", "Kenya"},
		{"[1,2]", "[1,2]"},
	}

	for _, tc := range testCases {
		if got := claimValue(tc.input); got != tc.expected {
			t.Errorf("claimValue(%q): expected %#v, got %#v", tc.input, tc.expected, got)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
cache:
  enabled: false
  memory_ttl: 90s
concurrency:
  workers: 9
lint:
  levels:
    unknown_policy: error
extractors:
  - tool: indicators_get
    claim_id_key: id
    value_key: value
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	setDefaults(v, model.DefaultConfig())
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("Expected config to load, got %v", err)
	}

	cfg, err := loadConfig(v)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Cache.Enabled {
		t.Error("Expected cache disabled from file")
	}
	if cfg.Cache.MemoryTTL != 90*time.Second {
		t.Errorf("Expected memory TTL 90s, got %v", cfg.Cache.MemoryTTL)
	}
	if cfg.Cache.DiskTTL != 24*time.Hour {
		t.Errorf("Expected default disk TTL kept, got %v", cfg.Cache.DiskTTL)
	}
	if cfg.Concurrency.Workers != 9 {
		t.Errorf("Expected 9 workers, got %d", cfg.Concurrency.Workers)
	}
	if cfg.Lint.Levels["unknown_policy"] != "error" {
		t.Errorf("Expected lint override, got %v", cfg.Lint.Levels)
	}
	if len(cfg.Extractors) != 1 || cfg.Extractors[0].Tool != "indicators_get" {
		t.Errorf("Expected one extractor, got %+v", cfg.Extractors)
	}
	if cfg.Input.MaxBytes != model.DefaultConfig().Input.MaxBytes {
		t.Errorf("Expected default max bytes, got %d", cfg.Input.MaxBytes)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// The written file must load back to the defaults
	v := viper.New()
	setDefaults(v, model.DefaultConfig())
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("Expected written config to parse, got %v", err)
	}
	cfg, err := loadConfig(v)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Cache.MemoryTTL != 10*time.Minute || cfg.Concurrency.Workers != 4 {
		t.Errorf("Expected defaults back, got %+v", cfg)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("Expected error when the file already exists")
	}
}
