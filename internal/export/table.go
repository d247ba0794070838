package export

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sells-group/directory-cli/internal/model"
)

// RenderTable prints the rows in schema columns as a terminal table.
func RenderTable(w io.Writer, schema Schema, result *model.RunResult) {
	render(w, Columns(schema), Records(result, schema))
}

// RenderErrors prints the error list as a terminal table. Nothing is printed
// for an empty list.
func RenderErrors(w io.Writer, errs []model.RunError) {
	if len(errs) == 0 {
		return
	}
	render(w, errorColumns, ErrorRecords(errs))
}

// RenderTargets prints discovered targets.
func RenderTargets(w io.Writer, targets []model.DiscoveryTarget) {
	records := make([][]string, 0, len(targets))
	for _, t := range targets {
		records = append(records, []string{string(t.Family), string(t.Kind), t.LinkText, t.TargetURL})
	}
	render(w, []string{"family", "kind", "link_text", "target_url"}, records)
}

func render(w io.Writer, header []string, records [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(toRow(header))
	for _, rec := range records {
		t.AppendRow(toRow(rec))
	}
	t.Render()
}

func toRow(values []string) table.Row {
	row := make(table.Row, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
