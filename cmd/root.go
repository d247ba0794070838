package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/config"
	"github.com/sells-group/directory-cli/internal/export"
)

var cfg *config.Config

// Flag overrides shared by the commands that register them.
var (
	flagDelay         time.Duration
	flagMaxTargets    int
	flagDropNoContact bool
	flagFormat        string
	flagSchema        string
	flagOutput        string
)

var rootCmd = &cobra.Command{
	Use:   "directory-cli",
	Short: "Advisor directory discovery and extraction",
	Long:  "Discovers advisor and team pages from branch seed URLs, extracts people with their roles and contacts, reconciles duplicates and exports the result.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlagOverrides(cmd, c)
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&flagDelay, "delay", 0, "politeness delay between requests (overrides fetch.politeness_delay)")
}

// addBuildFlags registers the extraction and export overrides on cmd.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagMaxTargets, "max-targets", 0, "max included targets to process (overrides build.max_targets)")
	cmd.Flags().BoolVar(&flagDropNoContact, "drop-no-contact", false, "drop rows with neither email nor phone")
	cmd.Flags().StringVar(&flagFormat, "format", "", "output format: csv, xlsx or json")
	cmd.Flags().StringVar(&flagSchema, "schema", "", "output schema: minimal or extended")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default stdout)")
}

// applyFlagOverrides copies explicitly set flags over the loaded config. An
// output path without --format picks the format from its extension.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("delay") {
		c.Fetch.PolitenessDelay = flagDelay
	}
	if flags.Changed("max-targets") {
		c.Build.MaxTargets = flagMaxTargets
	}
	if flags.Changed("drop-no-contact") {
		c.Build.DropNoContact = flagDropNoContact
	}
	if flags.Changed("schema") {
		c.Export.Schema = flagSchema
	}
	if flags.Changed("output") {
		c.Export.Output = flagOutput
	}
	if flags.Changed("format") {
		c.Export.Format = flagFormat
	} else if c.Export.Output != "" {
		c.Export.Format = string(export.FormatFromPath(c.Export.Output, export.Format(c.Export.Format)))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
