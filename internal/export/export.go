// Package export writes a run's canonical rows and error list as CSV, XLSX
// or JSON, in the minimal or extended column schema.
package export

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/directory-cli/internal/model"
)

// Format is an output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// Schema selects the exported columns.
type Schema string

const (
	SchemaMinimal  Schema = "minimal"
	SchemaExtended Schema = "extended"
)

var minimalColumns = []string{
	"team_name",
	"advisor_name",
	"advisor_role",
	"advisor_email",
	"advisor_phone",
}

var extendedColumns = slices.Concat(minimalColumns, []string{
	"team_slug",
	"team_root_url",
	"team_page_url",
	"contact_page_url",
	"address",
	"profile_url",
	"branch_seed_url",
	"source_pages",
	"source",
	"merged_records",
})

var errorColumns = []string{"stage", "target_url", "error_message"}

// sourcePageSeparator joins the pages a merged row was read from.
const sourcePageSeparator = " | "

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatJSON:
		return f, nil
	}
	return "", eris.Errorf("export: unknown format %q", s)
}

// ParseSchema validates a schema name.
func ParseSchema(s string) (Schema, error) {
	switch sc := Schema(strings.ToLower(strings.TrimSpace(s))); sc {
	case SchemaMinimal, SchemaExtended:
		return sc, nil
	}
	return "", eris.Errorf("export: unknown schema %q", s)
}

// FormatFromPath infers the format from a file extension, defaulting to
// fallback.
func FormatFromPath(path string, fallback Format) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return fallback
}

// Columns returns the header of schema.
func Columns(schema Schema) []string {
	if schema == SchemaExtended {
		return extendedColumns
	}
	return minimalColumns
}

// Records renders the result's rows as string records in column order. The
// extended schema also carries the no_people_found placeholders.
func Records(result *model.RunResult, schema Schema) [][]string {
	rows := result.Rows
	if schema == SchemaExtended {
		rows = slices.Concat(rows, result.Empty)
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		rec := []string{r.TeamName, r.Name, r.Role, r.Email, r.Phone}
		if schema == SchemaExtended {
			rec = append(rec,
				r.TeamSlug,
				r.TeamRootURL,
				r.TeamPageURL,
				r.ContactPageURL,
				r.Address,
				r.ProfileURL,
				r.SeedURL,
				strings.Join(r.SourcePages, sourcePageSeparator),
				string(r.Source),
				strconv.Itoa(r.Merged),
			)
		}
		out = append(out, rec)
	}
	return out
}

// ErrorRecords renders the error list in errorColumns order.
func ErrorRecords(errs []model.RunError) [][]string {
	out := make([][]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, []string{string(e.Stage), e.TargetURL, e.Message})
	}
	return out
}

// Write renders result to w. CSV carries the rows only; XLSX and JSON also
// carry the error list.
func Write(w io.Writer, format Format, schema Schema, result *model.RunResult) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, Columns(schema), Records(result, schema))
	case FormatXLSX:
		return writeXLSX(w, schema, result)
	case FormatJSON:
		return writeJSON(w, schema, result)
	}
	return eris.Errorf("export: unknown format %q", format)
}

// WriteFile writes result to path. For CSV, a non-empty error list goes to a
// sibling "<name>.errors.csv" file.
func WriteFile(path string, format Format, schema Schema, result *model.RunResult) error {
	if err := writeFile(path, func(w io.Writer) error {
		return Write(w, format, schema, result)
	}); err != nil {
		return err
	}
	if format != FormatCSV || len(result.Errors) == 0 {
		return nil
	}
	return writeFile(ErrorsPath(path), func(w io.Writer) error {
		return writeCSV(w, errorColumns, ErrorRecords(result.Errors))
	})
}

// ErrorsPath is the sibling error file of a CSV output path.
func ErrorsPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".errors.csv"
}

func writeFile(path string, fn func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "export: create dir %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "export: close %s", path)
}
