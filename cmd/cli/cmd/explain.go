// Package cmd - explain command
package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"slcsp/core/engine"
	"slcsp/core/ingestion"
	"slcsp/internal/config"
	"slcsp/internal/logging"
)

var (
	explainPlansPath string
	explainZipsPath  string
)

// explainCmd shows the indexed data behind individual ZIP codes
var explainCmd = &cobra.Command{
	Use:   "explain ZIP...",
	Short: "Show how ZIP codes resolve",
	Long: `Show the rate areas, distinct silver rates and resolution status of
one or more ZIP codes.

Examples:
  slcsp explain --plans plans.csv --zips zips.csv 64148
  slcsp explain --plans plans.csv --zips zips.csv 64148 40813`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().StringVar(&explainPlansPath, "plans", "", "plans table (state, metal_level, rate, rate_area)")
	explainCmd.Flags().StringVar(&explainZipsPath, "zips", "", "ZIP table (zipcode, state, rate_area)")
	_ = explainCmd.MarkFlagRequired("plans")
	_ = explainCmd.MarkFlagRequired("zips")
}

func runExplain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Get()
	logger := logging.Logger

	tables, warnings, err := readInputs(ctx, cfg, logger,
		inputFile{source: ingestion.SourcePlans, path: explainPlansPath},
		inputFile{source: ingestion.SourceZips, path: explainZipsPath},
	)
	if err != nil {
		return err
	}

	o := engine.New(ingestion.NewNormalizer(cfg.Columns, cfg.MetalLevel), logger)
	in := engine.Inputs{Plans: tables[0].Records, Zips: tables[1].Records, Warnings: warnings}
	if err := o.Load(ctx, in); err != nil {
		return err
	}
	if err := o.BuildIndexes(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ZIPCODE\tSTATUS\tRATE AREAS\tSILVER RATES\tSLCSP")
	for _, zip := range args {
		e, err := o.Explain(strings.TrimSpace(zip))
		if err != nil {
			return err
		}

		areas := make([]string, len(e.Areas))
		for i, a := range e.Areas {
			areas[i] = a.String()
		}
		rates := make([]string, len(e.Rates))
		for i, r := range e.Rates {
			rates[i] = r.String()
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Zipcode,
			e.Resolution.Status,
			dash(strings.Join(areas, ", ")),
			dash(strings.Join(rates, ", ")),
			dash(e.Resolution.FormattedRate()),
		)
	}
	return w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
