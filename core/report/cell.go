package report

import (
	"math"
	"strconv"

	"github.com/kilianp07/fcbench/core/series"
)

// CellKind tells which field of a Cell is set.
type CellKind int

const (
	CellMissing CellKind = iota
	CellString
	CellNumber
	CellSeries
)

// Cell is one value of the report table.
type Cell struct {
	Kind   CellKind
	Str    string
	Num    float64
	Series series.Series
}

func StringCell(s string) Cell        { return Cell{Kind: CellString, Str: s} }
func NumberCell(v float64) Cell       { return Cell{Kind: CellNumber, Num: v} }
func SeriesCell(s series.Series) Cell { return Cell{Kind: CellSeries, Series: s} }

// Missing reports whether the cell holds no value.
func (c Cell) Missing() bool { return c.Kind == CellMissing }

// String renders the cell for flat files. Missing cells render empty.
func (c Cell) String() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		if math.IsNaN(c.Num) {
			return "NaN"
		}
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	case CellSeries:
		return c.Series.String()
	default:
		return ""
	}
}

// Value returns the cell as a JSON friendly value. NaN and missing cells
// map to nil.
func (c Cell) Value() any {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return nil
		}
		return c.Num
	case CellSeries:
		return c.Series
	default:
		return nil
	}
}
