// Package cmd - calculate command
package cmd

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"slcsp/core/engine"
	"slcsp/core/ingestion"
	"slcsp/core/output"
	"slcsp/internal/config"
	"slcsp/internal/errors"
	"slcsp/internal/logging"
)

var (
	plansPath    string
	zipsPath     string
	targetsPath  string
	outputFormat string
	outputPath   string
)

// calculateCmd represents the calculate command
var calculateCmd = &cobra.Command{
	Use:     "calculate",
	Aliases: []string{"run"},
	Short:   "Compute the SLCSP rate for every ZIP in the target list",
	Long: `Compute the second lowest cost silver plan rate for each ZIP code listed
in the target table, in input order.

The result table (zipcode,rate) goes to stdout unless --output is given.
Rates have exactly two decimal places; ZIP codes that are unknown, map to
more than one rate area, or whose rate area has fewer than two distinct
silver rates get an empty rate. Warnings and logs go to stderr.

Input files may be CSV or XLSX (chosen by extension).

Examples:
  slcsp calculate --plans plans.csv --zips zips.csv --slcsp slcsp.csv
  slcsp calculate --plans plans.csv --zips zips.csv --slcsp slcsp.csv -o answer.csv
  slcsp run --plans plans.csv --zips zips.csv --slcsp slcsp.csv --format json`,
	Args: cobra.NoArgs,
	RunE: runCalculate,
}

func init() {
	calculateCmd.Flags().StringVar(&plansPath, "plans", "", "plans table (state, metal_level, rate, rate_area)")
	calculateCmd.Flags().StringVar(&zipsPath, "zips", "", "ZIP table (zipcode, state, rate_area)")
	calculateCmd.Flags().StringVar(&targetsPath, "slcsp", "", "target ZIP table (zipcode)")
	calculateCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (csv, json, parquet); default from config")
	calculateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file; default stdout")

	for _, name := range []string{"plans", "zips", "slcsp"} {
		_ = calculateCmd.MarkFlagRequired(name)
	}
}

func runCalculate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()
	cfg := config.Get()

	format := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format = outputFormat
	}
	formatter, ok := output.Lookup(format)
	if !ok {
		return errors.Newf(errors.TypeConfig, "unsupported output format %q", format)
	}

	dest := cfg.Output.Path
	if cmd.Flags().Changed("output") {
		dest = outputPath
	}

	runID := uuid.NewString()
	logger := logging.ForRun(runID)
	logger.Debug("starting calculation",
		zap.String("plans", plansPath),
		zap.String("zips", zipsPath),
		zap.String("slcsp", targetsPath),
		zap.String("format", format),
	)

	tables, warnings, err := readInputs(ctx, cfg, logger,
		inputFile{source: ingestion.SourcePlans, path: plansPath},
		inputFile{source: ingestion.SourceZips, path: zipsPath},
		inputFile{source: ingestion.SourceTargets, path: targetsPath},
	)
	if err != nil {
		return err
	}

	normalizer := ingestion.NewNormalizer(cfg.Columns, cfg.MetalLevel)
	report, err := engine.New(normalizer, logger).Run(ctx, engine.Inputs{
		Plans:    tables[0].Records,
		Zips:     tables[1].Records,
		Targets:  tables[2].Records,
		Warnings: warnings,
	})
	if err != nil {
		return err
	}

	if err := output.Write(dest, cmd.OutOrStdout(), formatter, output.NewTable(report.Results)); err != nil {
		return err
	}

	logger.Debug("calculation written",
		zap.String("destination", dest),
		zap.Duration("elapsed", time.Since(startTime)),
	)
	return nil
}
