package extractor

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/pierrec/lz4"
)

const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZip  = "zip"
	CompressionLZ4  = "lz4"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zipMagic  = []byte{'P', 'K', 0x03, 0x04}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// MaxUnpackedSize caps the size of a decompressed upload.
const MaxUnpackedSize = 512 << 20

// unpack returns the payload of a gzip, zip or lz4 upload, detected by its
// magic bytes. Anything else is returned unchanged.
func unpack(data []byte) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		out, err := unpackGzip(data)
		return out, CompressionGzip, err
	case bytes.HasPrefix(data, zipMagic):
		out, err := unpackZip(data)
		return out, CompressionZip, err
	case bytes.HasPrefix(data, lz4Magic):
		out, err := readCapped(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, CompressionLZ4, fmt.Errorf("failed to read lz4 stream: %w", err)
		}
		return out, CompressionLZ4, nil
	default:
		return data, CompressionNone, nil
	}
}

func unpackGzip(data []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gr.Close()

	out, err := readCapped(gr)
	if err != nil {
		return nil, fmt.Errorf("failed to read gzip stream: %w", err)
	}
	return out, nil
}

// unpackZip extracts the largest file in the archive.
func unpackZip(data []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive: %w", err)
	}

	var largest *zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if largest == nil || f.UncompressedSize64 > largest.UncompressedSize64 {
			largest = f
		}
	}
	if largest == nil {
		return nil, fmt.Errorf("zip archive contains no files")
	}

	rc, err := largest.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in zip archive: %w", largest.Name, err)
	}
	defer rc.Close()

	out, err := readCapped(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s in zip archive: %w", largest.Name, err)
	}
	return out, nil
}

func readCapped(r io.Reader) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, MaxUnpackedSize+1))
	if err != nil {
		return nil, err
	}
	if len(out) > MaxUnpackedSize {
		return nil, fmt.Errorf("decompressed data exceeds %d bytes", MaxUnpackedSize)
	}
	return out, nil
}
