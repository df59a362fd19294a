package extractor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/BerylCAtieno/dataset-summarizer-api/internal/models"
)

var ErrNoHeader = errors.New("no columns to parse from file")

// parseTable reads CSV text into a table. The first record is the header.
// Short rows are padded with missing cells; long rows are an error.
func parseTable(text string) (*models.Table, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	names := normalizeHeader(header)
	raw := make([][]string, len(names))

	rows := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rows+1, err)
		}
		if len(record) > len(names) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(names), len(record))
		}
		for i := range names {
			cell := ""
			if i < len(record) {
				cell = record[i]
			}
			raw[i] = append(raw[i], cell)
		}
		rows++
	}

	table := &models.Table{Rows: rows, Columns: make([]*models.Column, len(names))}
	for i, name := range names {
		table.Columns[i] = buildColumn(name, raw[i], rows)
	}
	return table, nil
}

// normalizeHeader names blank headers "Unnamed: <index>" and renames repeats
// as name.1, name.2 and so on.
func normalizeHeader(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))

	for i, h := range header {
		name := h
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		taken[name] = true
		names[i] = name
	}

	for i, name := range names {
		count := seen[name]
		seen[name] = count + 1
		if count == 0 {
			continue
		}
		candidate := fmt.Sprintf("%s.%d", name, count)
		for taken[candidate] {
			count++
			candidate = fmt.Sprintf("%s.%d", name, count)
		}
		seen[name] = count + 1
		taken[candidate] = true
		names[i] = candidate
	}
	return names
}

func buildColumn(name string, raw []string, rows int) *models.Column {
	if raw == nil {
		raw = make([]string, 0, rows)
	}
	col := &models.Column{
		Name:    name,
		Kind:    models.KindText,
		Raw:     raw,
		Missing: make([]bool, len(raw)),
	}

	numbers := make([]float64, len(raw))
	numeric := true
	present := 0
	for i, v := range raw {
		if models.IsMissingMarker(v) {
			col.Missing[i] = true
			numbers[i] = math.NaN()
			continue
		}
		if !numeric {
			continue
		}
		f, ok := parseNumber(v)
		if !ok {
			numeric = false
			continue
		}
		numbers[i] = f
		if !math.IsNaN(f) {
			present++
		}
	}

	if numeric && present > 0 {
		col.Kind = models.KindNumeric
		col.Numbers = numbers
		// A value such as " nan " parses to NaN and is missing too.
		for i, f := range numbers {
			if math.IsNaN(f) {
				col.Missing[i] = true
			}
		}
	}
	return col
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	lower := strings.ToLower(strings.TrimLeft(s, "+-"))
	if strings.HasPrefix(lower, "0x") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}
