package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/aristath/buywrite/internal/modules/evaluation"
)

// WriteCSV writes a header line and one record per row.
func WriteCSV(w io.Writer, rows []evaluation.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(record(row, false)); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBestCSV writes only the best-ranked row of result.
func WriteBestCSV(w io.Writer, result *evaluation.Result) error {
	best, ok := result.Best()
	if !ok {
		return fmt.Errorf("result has no best row")
	}
	return WriteCSV(w, []evaluation.Row{best})
}
