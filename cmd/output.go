package main

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/config"
	"github.com/sells-group/directory-cli/internal/export"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/store"
)

// writeResult exports result per c.Export and hands it to the configured
// store. With an output file the results and error tables are printed to
// out; without one the export itself goes to out and the error table to
// errOut.
func writeResult(ctx context.Context, c *config.Config, out, errOut io.Writer, result *model.RunResult) error {
	format, err := export.ParseFormat(c.Export.Format)
	if err != nil {
		return err
	}
	schema, err := export.ParseSchema(c.Export.Schema)
	if err != nil {
		return err
	}

	if c.Export.Output == "" {
		if format == export.FormatXLSX {
			return eris.New("xlsx output requires --output")
		}
		if err := export.Write(out, format, schema, result); err != nil {
			return err
		}
		export.RenderErrors(errOut, result.Errors)
	} else {
		if err := export.WriteFile(c.Export.Output, format, schema, result); err != nil {
			return err
		}
		export.RenderTable(out, schema, result)
		export.RenderErrors(out, result.Errors)
		zap.L().Info("output written",
			zap.String("path", c.Export.Output),
			zap.String("format", string(format)),
			zap.Int("rows", len(result.Rows)),
			zap.Int("errors", len(result.Errors)),
		)
	}

	return saveRun(ctx, c.Store, result)
}

func saveRun(ctx context.Context, sc config.StoreConfig, result *model.RunResult) error {
	st, err := store.Open(ctx, sc)
	if err != nil {
		return eris.Wrap(err, "open store")
	}
	if st == nil {
		return nil
	}
	defer st.Close() //nolint:errcheck

	if err := st.SaveRun(ctx, result); err != nil {
		return eris.Wrap(err, "save run")
	}
	zap.L().Info("run saved", zap.String("run_id", result.RunID), zap.String("driver", sc.Driver))
	return nil
}

// withDiscoverErrors puts the curated list's discovery errors ahead of the
// build errors.
func withDiscoverErrors(result *model.RunResult, errs []model.RunError) {
	if len(errs) == 0 {
		return
	}
	merged := make([]model.RunError, 0, len(errs)+len(result.Errors))
	merged = append(merged, errs...)
	result.Errors = append(merged, result.Errors...)
}
