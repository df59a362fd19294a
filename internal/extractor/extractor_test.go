package extractor

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"math"
	"testing"

	"github.com/pierrec/lz4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/dataset-summarizer-api/internal/models"
)

func TestIngestUTF8(t *testing.T) {
	res, err := Ingest([]byte("id,score,name\n1,10,a\n2,20,b\n3,30,c\n"))
	require.NoError(t, err)

	assert.Equal(t, EncodingUTF8, res.Encoding)
	assert.Equal(t, CompressionNone, res.Compression)
	assert.Equal(t, 3, res.Table.Rows)
	assert.Equal(t, []string{"id", "score", "name"}, res.Table.ColumnNames())
	assert.Equal(t, models.KindNumeric, res.Table.Columns[0].Kind)
	assert.Equal(t, models.KindNumeric, res.Table.Columns[1].Kind)
	assert.Equal(t, models.KindText, res.Table.Columns[2].Kind)
	assert.Equal(t, []float64{10, 20, 30}, res.Table.Columns[1].Numbers)
}

func TestIngestStripsBOM(t *testing.T) {
	res, err := Ingest([]byte("\xEF\xBB\xBFname,value\nx,1\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "value"}, res.Table.ColumnNames())
}

func TestIngestFallsBackToWindows1252(t *testing.T) {
	res, err := Ingest([]byte("city,pop\nS\xE3o Paulo,12\nZ\xFCrich,0.4\n"))
	require.NoError(t, err)

	assert.Equal(t, EncodingWindows1252, res.Encoding)
	assert.Equal(t, []string{"São Paulo", "Zürich"}, res.Table.Columns[0].Raw)
}

func TestIngestRejectsUndecodableBytes(t *testing.T) {
	_, err := Ingest([]byte("a,b\n\x81\xFF,2\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUndecodable)
}

func TestIngestEmpty(t *testing.T) {
	_, err := Ingest(nil)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = Ingest([]byte("\n\n"))
	assert.ErrorIs(t, err, ErrUndecodable)
}

func TestIngestHeaderOnly(t *testing.T) {
	res, err := Ingest([]byte("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Table.Rows)
	assert.Len(t, res.Table.Columns, 2)
	assert.Equal(t, models.KindText, res.Table.Columns[0].Kind)
}

func TestParsePadsShortRows(t *testing.T) {
	table, err := parseTable("a,b,c\n1,2\n4,5,6\n")
	require.NoError(t, err)

	c := table.Columns[2]
	assert.Equal(t, []bool{true, false}, c.Missing)
	assert.Equal(t, models.KindNumeric, c.Kind)
	assert.True(t, math.IsNaN(c.Numbers[0]))
}

func TestParseRejectsLongRows(t *testing.T) {
	_, err := parseTable("a,b\n1,2,3\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 fields, saw 3")
}

func TestNormalizeHeader(t *testing.T) {
	got := normalizeHeader([]string{"a", "a", "", "b", "a"})
	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2", "b", "a.2"}, got)

	got = normalizeHeader([]string{"a", "a.1", "a"})
	assert.Equal(t, []string{"a", "a.1", "a.2"}, got)
}

func TestMissingMarkers(t *testing.T) {
	table, err := parseTable("x,y\nNA,1\n,2\nfoo,NULL\n n/a,4\n")
	require.NoError(t, err)

	x := table.Columns[0]
	assert.Equal(t, models.KindText, x.Kind)
	assert.Equal(t, []bool{true, true, false, false}, x.Missing, "markers match exactly, untrimmed")

	y := table.Columns[1]
	assert.Equal(t, models.KindNumeric, y.Kind)
	assert.Equal(t, 1, y.MissingCount())
	assert.Equal(t, []float64{1, 2, 4}, y.PresentNumbers())
}

func TestAllMissingColumnIsText(t *testing.T) {
	table, err := parseTable("a,b\n1,\n2,NA\n")
	require.NoError(t, err)
	assert.Equal(t, models.KindText, table.Columns[1].Kind)
	assert.Equal(t, 2, table.Columns[1].MissingCount())
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" -3.5 ", -3.5, true},
		{"1e3", 1000, true},
		{"1e400", math.Inf(1), true},
		{"0x10", 0, false},
		{"1,000", 0, false},
		{"true", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

const sampleCSV = "a,b\n1,x\n2,y\n"

func TestIngestGzip(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	res, err := Ingest(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, CompressionGzip, res.Compression)
	assert.Equal(t, 2, res.Table.Rows)
}

func TestIngestZipPicksLargestFile(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	small, err := zw.Create("readme.txt")
	require.NoError(t, err)
	_, err = small.Write([]byte("x"))
	require.NoError(t, err)
	data, err := zw.Create("data.csv")
	require.NoError(t, err)
	_, err = data.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	res, err := Ingest(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, CompressionZip, res.Compression)
	assert.Equal(t, []string{"a", "b"}, res.Table.ColumnNames())
}

func TestIngestLZ4(t *testing.T) {
	var buf bytes.Buffer
	lw := lz4.NewWriter(&buf)
	_, err := lw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, lw.Close())

	res, err := Ingest(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, CompressionLZ4, res.Compression)
	assert.Equal(t, 2, res.Table.Rows)
}

func TestPreviewRows(t *testing.T) {
	table, err := parseTable("a,b\n1,x\nNA,\n3,z\n")
	require.NoError(t, err)

	out, err := json.Marshal(PreviewRows(table, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"a":1,"b":"x"},{"a":null,"b":null},{"a":3,"b":"z"}]`, string(out))

	assert.Len(t, PreviewRows(table, 2), 2)
}

func TestPreviewKeepsColumnOrder(t *testing.T) {
	table, err := parseTable("z,a,m\n1,2,3\n")
	require.NoError(t, err)

	out, err := json.Marshal(PreviewRows(table, 0)[0])
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2,"m":3}`, string(out))
}

func TestPreviewInfinityIsNull(t *testing.T) {
	table, err := parseTable("v\n1e400\n2\n")
	require.NoError(t, err)

	out, err := json.Marshal(PreviewRows(table, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"v":null},{"v":2}]`, string(out))
}
