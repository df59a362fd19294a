package extractor

import (
	"math"

	"github.com/BerylCAtieno/dataset-summarizer-api/internal/models"
)

// PreviewRows renders the first limit rows of t for JSON output. A limit of
// zero or less renders every row. Missing and infinite cells become null.
func PreviewRows(t *models.Table, limit int) []models.PreviewRow {
	n := t.Rows
	if limit > 0 && limit < n {
		n = limit
	}

	names := t.ColumnNames()
	rows := make([]models.PreviewRow, n)
	for r := 0; r < n; r++ {
		values := make([]models.Cell, len(t.Columns))
		for c, col := range t.Columns {
			values[c] = cellValue(col, r)
		}
		rows[r] = models.PreviewRow{Columns: names, Values: values}
	}
	return rows
}

func cellValue(col *models.Column, row int) models.Cell {
	if col.Missing[row] {
		return nil
	}
	if col.Kind != models.KindNumeric {
		return col.Raw[row]
	}
	f := col.Numbers[row]
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return f
}
