package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/xuri/excelize/v2"
)

var cellFlattener = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

// ReadFile reads and decodes a datalog file. See Decode.
func ReadFile(path string, maxBytes int64) ([]byte, error) {
	// #nosec G304 - path is provided by user via CLI
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(path, f, maxBytes)
}

// Decode reads r, decompressing by the extension of name (.gz, .xz, .zst)
// and rendering .xlsx workbooks as tab-delimited text. The size bound
// applies to the decompressed bytes.
func Decode(name string, r io.Reader, maxBytes int64) ([]byte, error) {
	lower := strings.ToLower(name)
	ext := filepath.Ext(lower)

	var src io.Reader = r
	compressed := true
	switch ext {
	case ".gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		src = gz
	case ".xz":
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		src = xr
	case ".zst", ".zstd":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()
		src = dec
	default:
		compressed = false
	}

	data, err := readLimited(src, maxBytes)
	if err != nil {
		return nil, err
	}

	inner := ext
	if compressed {
		inner = filepath.Ext(strings.TrimSuffix(lower, ext))
	}
	if inner == ".xlsx" {
		return workbookText(data, maxBytes)
	}
	return data, nil
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, maxBytes)
	}
	return data, nil
}

// workbookText renders the first sheet of a workbook as tab-delimited lines.
func workbookText(data []byte, maxBytes int64) ([]byte, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer func() {
		_ = wb.Close()
	}()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("no sheets found in XLSX file")
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	var buf bytes.Buffer
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				buf.WriteByte('\t')
			}
			buf.WriteString(cellFlattener.Replace(cell))
		}
		buf.WriteByte('\n')
		if maxBytes > 0 && int64(buf.Len()) > maxBytes {
			return nil, fmt.Errorf("%w: sheet %s renders to more than %d bytes", ErrInputTooLarge, sheets[0], maxBytes)
		}
	}
	return buf.Bytes(), nil
}
