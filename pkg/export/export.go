// Package export writes benchmark report tables as flat files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kilianp07/fcbench/core/report"
)

// WriteCSV writes the table to w with a header row. Missing cells are empty.
func WriteCSV(w io.Writer, tbl *report.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(tbl.Records()); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// jsonTable keeps the column order that a JSON object would lose.
type jsonTable struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// WriteJSON writes the table to w as {"columns": [...], "rows": [[...]]}.
// Missing cells and NaN are null.
func WriteJSON(w io.Writer, tbl *report.Table) error {
	cols := tbl.Columns()
	out := jsonTable{Columns: cols, Rows: make([][]any, 0, len(tbl.Rows))}
	for _, r := range tbl.Rows {
		rec := make([]any, len(cols))
		for i, c := range cols {
			rec[i] = r.Cell(c).Value()
		}
		out.Rows = append(out.Rows, rec)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteFile writes the whole table to path atomically: data goes to a
// temporary file in the same directory which is then renamed over path.
// The format follows the extension (.json, otherwise CSV).
func WriteFile(path string, tbl *report.Table) (err error) {
	write := WriteCSV
	if strings.EqualFold(filepath.Ext(path), ".json") {
		write = WriteJSON
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if err = write(tmp, tbl); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
