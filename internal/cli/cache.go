package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/claimmark/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the annotation cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached annotation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		if err := c.Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Cache cleared")
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired cache entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		p, ok := c.(cache.Pruner)
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cache is disabled, nothing to prune")
			return nil
		}
		n, err := p.Prune()
		if err != nil {
			return fmt.Errorf("prune cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d expired entries\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)
}

func openCache() (cache.Cache, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return c, nil
}
