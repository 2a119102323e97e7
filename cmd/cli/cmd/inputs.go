package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"slcsp/adapters/tabular"
	"slcsp/core/types"
	"slcsp/internal/config"
)

// inputFile is one table the command reads.
type inputFile struct {
	source string
	path   string
}

// readInputs validates every file before decoding any of them, so a bad
// path fails the run before work is done. The returned tables are in the
// order of files.
func readInputs(ctx context.Context, cfg *config.Config, logger *zap.Logger, files ...inputFile) ([]*tabular.Table, []types.Warning, error) {
	for _, f := range files {
		if err := tabular.Validate(f.source, f.path); err != nil {
			return nil, nil, err
		}
	}

	opts := tabular.Options{
		Delimiter:  cfg.Input.DelimiterRune(),
		LazyQuotes: cfg.Input.LazyQuotes,
		Sheet:      cfg.Input.Sheet,
	}

	tables := make([]*tabular.Table, 0, len(files))
	var warnings []types.Warning
	for _, f := range files {
		table, err := tabular.Read(ctx, f.source, f.path, opts)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("input decoded",
			zap.String("source", f.source),
			zap.String("path", f.path),
			zap.Int("records", len(table.Records)),
		)

		// An empty file has no header and simply contributes no rows.
		if len(table.Header) > 0 {
			for _, column := range table.Missing(cfg.Columns.Required(f.source)) {
				warnings = append(warnings, types.Warning{
					Source:  f.source,
					Line:    1,
					Message: fmt.Sprintf("%s is missing column %q", f.source, column),
				})
			}
		}
		tables = append(tables, table)
	}
	return tables, warnings, nil
}
