package extractor

import (
	"errors"
	"fmt"

	"github.com/BerylCAtieno/dataset-summarizer-api/internal/models"
)

var (
	ErrEmptyFile   = errors.New("empty file")
	ErrUndecodable = errors.New("file could not be read as UTF-8 or Windows-1252 CSV")
)

type Result struct {
	Table       *models.Table
	Encoding    string
	Compression string
}

// Ingest turns an uploaded file into a table. Compressed uploads are
// unpacked first. The text is read as UTF-8 and, if decoding or parsing
// fails, read again as Windows-1252.
func Ingest(data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	payload, compression, err := unpack(data)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, ErrEmptyFile
	}

	table, utf8Err := parseWith(decodeUTF8, payload)
	if utf8Err == nil {
		return &Result{Table: table, Encoding: EncodingUTF8, Compression: compression}, nil
	}

	table, cp1252Err := parseWith(decodeWindows1252, payload)
	if cp1252Err == nil {
		return &Result{Table: table, Encoding: EncodingWindows1252, Compression: compression}, nil
	}

	return nil, fmt.Errorf("%w: utf-8: %v; windows-1252: %v", ErrUndecodable, utf8Err, cp1252Err)
}

func parseWith(decode func([]byte) (string, error), data []byte) (*models.Table, error) {
	text, err := decode(data)
	if err != nil {
		return nil, err
	}
	return parseTable(text)
}
