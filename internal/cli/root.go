package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/claimmark/internal/model"
)

// version is set at build time with -ldflags "-X github.com/ppiankov/claimmark/internal/cli.version=..."
var version = "v0.1.0"

var (
	cfgFile    string
	verbose    bool
	claimFiles []string
	noCache    bool
	noColor    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimmark",
	Short: "Claimmark - verify numbers in documents against registered claims",
	Long: `Claimmark checks the figures written inside <claim> elements against a
registry of source-of-truth claims and marks each one as verified or as
needing verification.

A claim element names the datum it shows and how it may be written:

  GDP grew <claim id="gdp_growth" policy="rounded" decimals="1">5.3</claim>%

Policies: exact, rounded, tolerance, percent, abbr, ratio, range, year, auto.

Claimmark never guesses: unparseable text and unknown ids are left pending.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number for Claimmark.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "claimmark %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.claimmark/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.StringSliceVarP(&claimFiles, "claims", "c", nil, "claims JSON file (repeatable; object keyed by id or list of entries)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")
	flags.BoolVar(&noCache, "no-cache", false, "disable the annotation cache")
	flags.BoolVar(&noColor, "no-color", false, "disable coloured output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(viper.GetViper(), model.DefaultConfig())

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".claimmark"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CLAIMMARK_* (e.g., CLAIMMARK_CACHE_ENABLED)
	viper.SetEnvPrefix("CLAIMMARK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env variables can override it
func setDefaults(v *viper.Viper, cfg model.Config) {
	v.SetDefault("input.max_bytes", cfg.Input.MaxBytes)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)
	v.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	v.SetDefault("output.verbose", cfg.Output.Verbose)
	v.SetDefault("output.include_footer", cfg.Output.IncludeFooter)
	v.SetDefault("output.color", cfg.Output.Color)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("lint.levels", cfg.Lint.Levels)
	v.SetDefault("lint.ignore", cfg.Lint.Ignore)
	v.SetDefault("lint.exempt_ids", cfg.Lint.ExemptIDs)
	v.SetDefault("extractors", cfg.Extractors)
}

// loadConfig merges defaults, config file, env and flags into a Config
func loadConfig(v *viper.Viper) (model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	// Negative flags override whatever the file or env say
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noColor {
		cfg.Output.Color = false
	}

	return cfg, nil
}
