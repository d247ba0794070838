package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/directory-cli/internal/model"
)

// Sheet names of the XLSX workbook.
const (
	RowsSheet   = "advisors"
	ErrorsSheet = "errors"
)

func writeXLSX(w io.Writer, schema Schema, result *model.RunResult) error {
	f := xlsx.NewFile()
	if err := addSheet(f, RowsSheet, Columns(schema), Records(result, schema)); err != nil {
		return err
	}
	if err := addSheet(f, ErrorsSheet, errorColumns, ErrorRecords(result.Errors)); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

func addSheet(f *xlsx.File, name string, header []string, records [][]string) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "export: add sheet %s", name)
	}
	appendRow(sheet, header)
	for _, rec := range records {
		appendRow(sheet, rec)
	}
	return nil
}

func appendRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}
