package models

import (
	"bytes"
	"encoding/json"
	"time"
)

type DatasetRecord struct {
	ID          string    `json:"id" db:"id"`
	Filename    string    `json:"filename" db:"filename"`
	FileSize    int64     `json:"file_size" db:"file_size"`
	ContentType string    `json:"content_type" db:"content_type"`
	Encoding    string    `json:"encoding" db:"encoding"`
	RowCount    int       `json:"row_count" db:"row_count"`
	ColumnCount int       `json:"column_count" db:"column_count"`
	S3Key       string    `json:"s3_key" db:"s3_key"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type UploadRequest struct {
	File        []byte
	Filename    string
	ContentType string
}

type SummarizeRequest struct {
	File          []byte
	Filename      string
	IdentityToken string
}

// Cell is one preview value: nil, float64 or string.
type Cell any

// PreviewRow is a row keyed by column name that keeps column order when
// encoded.
type PreviewRow struct {
	Columns []string
	Values  []Cell
}

func (r PreviewRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type PreviewResponse struct {
	DatasetID   string       `json:"dataset_id,omitempty"`
	Filename    string       `json:"filename"`
	Encoding    string       `json:"encoding"`
	Preview     []PreviewRow `json:"preview"`
	Columns     []string     `json:"columns"`
	RowCount    int          `json:"row_count"`
	ColumnCount int          `json:"column_count"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}
