package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/directory-cli/internal/model"
)

type jsonDocument struct {
	RunID      string              `json:"run_id"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Schema     Schema              `json:"schema"`
	Rows       []map[string]string `json:"rows"`
	Errors     []model.RunError    `json:"errors"`
}

func writeJSON(w io.Writer, schema Schema, result *model.RunResult) error {
	cols := Columns(schema)
	records := Records(result, schema)

	doc := jsonDocument{
		RunID:      result.RunID,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Schema:     schema,
		Rows:       make([]map[string]string, 0, len(records)),
		Errors:     result.Errors,
	}
	if doc.Errors == nil {
		doc.Errors = []model.RunError{}
	}
	for _, rec := range records {
		m := make(map[string]string, len(cols))
		for i, c := range cols {
			m[c] = rec[i]
		}
		doc.Rows = append(doc.Rows, m)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return eris.Wrap(err, "export: encode json")
	}
	return nil
}
