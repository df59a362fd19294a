package models

import "math"

type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumeric
)

// missingMarkers are the cell values read as missing. Matching is exact and
// case sensitive; surrounding whitespace is significant.
var missingMarkers = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

func IsMissingMarker(s string) bool {
	_, ok := missingMarkers[s]
	return ok
}

// Column holds one column of a table. Raw and Missing always have the
// table's row count; Numbers is only set for numeric columns and holds NaN
// where the cell is missing.
type Column struct {
	Name    string
	Kind    ColumnKind
	Raw     []string
	Missing []bool
	Numbers []float64
}

func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// Present returns the non-missing raw values in row order.
func (c *Column) Present() []string {
	out := make([]string, 0, len(c.Raw))
	for i, v := range c.Raw {
		if !c.Missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// PresentNumbers returns the non-missing values of a numeric column.
func (c *Column) PresentNumbers() []float64 {
	out := make([]float64, 0, len(c.Numbers))
	for _, v := range c.Numbers {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

type Table struct {
	Columns []*Column
	Rows    int
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// NumericColumns and TextColumns keep the table's column order.
func (t *Table) NumericColumns() []*Column {
	return t.columnsOfKind(KindNumeric)
}

func (t *Table) TextColumns() []*Column {
	return t.columnsOfKind(KindText)
}

func (t *Table) columnsOfKind(kind ColumnKind) []*Column {
	var out []*Column
	for _, c := range t.Columns {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (t *Table) MissingTotal() int {
	total := 0
	for _, c := range t.Columns {
		total += c.MissingCount()
	}
	return total
}
