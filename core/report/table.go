package report

// Table is the benchmark report: one row per (task, estimator) pair.
type Table struct {
	Rows []Row
}

// Columns returns the union of the rows' columns in first-appearance
// order, keeping the identifier columns first and runtime/error last.
func (t *Table) Columns() []string {
	cols := []string{ColValidationID, ColModelID}
	seen := map[string]bool{ColValidationID: true, ColModelID: true}
	failed := false
	for _, r := range t.Rows {
		for _, c := range r.scoreColumns() {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
		if r.Err != "" {
			failed = true
		}
	}
	cols = append(cols, ColRuntime)
	if failed {
		cols = append(cols, ColError)
	}
	return cols
}

// Records returns the table as header + string rows.
func (t *Table) Records() [][]string {
	cols := t.Columns()
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, cols)
	for _, r := range t.Rows {
		rec := make([]string, len(cols))
		for i, c := range cols {
			rec[i] = r.Cell(c).String()
		}
		out = append(out, rec)
	}
	return out
}

// Maps returns every row as column -> value, omitting missing cells.
func (t *Table) Maps() []map[string]any {
	cols := t.Columns()
	out := make([]map[string]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		m := make(map[string]any, len(cols))
		for _, c := range cols {
			cell := r.Cell(c)
			if cell.Missing() {
				continue
			}
			m[c] = cell.Value()
		}
		out = append(out, m)
	}
	return out
}

// Failed returns the rows that carry an error.
func (t *Table) Failed() []Row {
	var out []Row
	for _, r := range t.Rows {
		if r.Err != "" {
			out = append(out, r)
		}
	}
	return out
}
