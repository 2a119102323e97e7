// Package cmd provides the CLI commands for slcsp.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"slcsp/internal/config"
	"slcsp/internal/logging"
)

// Version is the CLI version, overridable at link time.
var Version = "0.1.0"

var (
	cfgFile string
	verbose bool
	force   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "slcsp",
	Short: "Compute the second lowest cost silver plan per ZIP code",
	Long: `slcsp joins a plans table and a ZIP-to-rate-area table to find the
second lowest cost silver plan (SLCSP) rate for each requested ZIP code.

ZIP codes that cannot be answered unambiguously are left blank.

Examples:
  slcsp calculate --plans plans.csv --zips zips.csv --slcsp slcsp.csv
  slcsp calculate --plans plans.xlsx --zips zips.csv --slcsp slcsp.csv --format json
  slcsp explain --plans plans.csv --zips zips.csv 64148`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.slcsp.yaml, then $HOME/.slcsp.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	// Add subcommands
	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	config.Set(cfg)

	// Initialize logging
	logCfg := cfg.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Initialize(logCfg); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	return nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "slcsp version %s\n", Version)
	},
}

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(config.Get())
		if err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Long: `Write the default configuration to path (default ./.slcsp.yaml).

The format follows the extension: .yaml/.yml is written as YAML,
anything else as JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.FileName + ".yaml"
		if len(args) > 0 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}
