package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testTable() *Table {
	nan := math.NaN()
	return &Table{
		Rows: 3,
		Columns: []*Column{
			{Name: "city", Kind: KindText, Raw: []string{"Oslo", "", "Bergen"}, Missing: []bool{false, true, false}},
			{Name: "temp", Kind: KindNumeric, Raw: []string{"4", "NA", "7"}, Missing: []bool{false, true, false}, Numbers: []float64{4, nan, 7}},
			{Name: "note", Kind: KindText, Raw: []string{"a", "b", "c"}, Missing: []bool{false, false, false}},
			{Name: "wind", Kind: KindNumeric, Raw: []string{"1", "2", "3"}, Missing: []bool{false, false, false}, Numbers: []float64{1, 2, 3}},
		},
	}
}

func TestTablePartitionKeepsColumnOrder(t *testing.T) {
	tbl := testTable()

	var numeric, text []string
	for _, c := range tbl.NumericColumns() {
		numeric = append(numeric, c.Name)
	}
	for _, c := range tbl.TextColumns() {
		text = append(text, c.Name)
	}

	assert.Equal(t, []string{"temp", "wind"}, numeric)
	assert.Equal(t, []string{"city", "note"}, text)
}

func TestTableMissing(t *testing.T) {
	tbl := testTable()

	assert.Equal(t, 2, tbl.MissingTotal())
	assert.Equal(t, []string{"Oslo", "Bergen"}, tbl.Columns[0].Present())
	assert.Equal(t, []float64{4, 7}, tbl.Columns[1].PresentNumbers())
}

func TestIsMissingMarker(t *testing.T) {
	for _, v := range []string{"", "NA", "n/a", "NULL", "nan", "<NA>"} {
		assert.True(t, IsMissingMarker(v), v)
	}
	for _, v := range []string{" ", "na ", "0", "inf", "missing"} {
		assert.False(t, IsMissingMarker(v), v)
	}
}
