package cmd

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kilianp07/fcbench/core/report"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)
)

// summaryRows renders one line per row: ids, mean±std per scorer, runtime
// and error.
func summaryRows(tbl *report.Table) ([]string, [][]string) {
	var scorers []string
	seen := map[string]bool{}
	for _, r := range tbl.Rows {
		for _, s := range r.Scorers {
			if !seen[s] {
				seen[s] = true
				scorers = append(scorers, s)
			}
		}
	}
	headers := append([]string{"validation_id", "model_id"}, scorers...)
	headers = append(headers, "runtime", "error")
	rows := make([][]string, 0, len(tbl.Rows))
	for _, r := range tbl.Rows {
		line := []string{r.TaskID, r.EstimatorID}
		for _, s := range scorers {
			sum, ok := r.Summary[s]
			if !ok {
				line = append(line, "")
				continue
			}
			line = append(line, formatStat(sum))
		}
		line = append(line, r.Runtime.Round(time.Millisecond).String(), r.Err)
		rows = append(rows, line)
	}
	return headers, rows
}

func formatStat(s report.Summary) string {
	if math.IsNaN(s.Std) {
		return fmt.Sprintf("%.4g", s.Mean)
	}
	return fmt.Sprintf("%.4g ± %.4g", s.Mean, s.Std)
}

func printSummary(cmd *cobra.Command, runID string, tbl *report.Table) {
	headers, rows := summaryRows(tbl)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(tbl.Rows) && tbl.Rows[row].Err != "":
				return failedStyle
			default:
				return cellStyle
			}
		})
	fmt.Fprintf(cmd.OutOrStdout(), "run %s\n%s\n", runID, t.Render())
}
