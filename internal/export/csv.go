package export

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
)

func writeCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	if err := cw.WriteAll(records); err != nil {
		return eris.Wrap(err, "export: write csv rows")
	}
	return nil
}
