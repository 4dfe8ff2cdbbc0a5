// Package spreadsheet reads workbook and delimited files into per-file row
// collections, tagging every record with its origin.
package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"serumqc/internal/dataset"
	"serumqc/pkg/strutil"
)

// Reader errors.
var (
	ErrNoHeader        = errors.New("file has no header row")
	ErrNoSheets        = errors.New("workbook has no sheets")
	ErrUnsupportedType = errors.New("unsupported spreadsheet type")
)

// IsSpreadsheet reports whether path has a readable spreadsheet extension.
func IsSpreadsheet(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".csv":
		return true
	}

	return false
}

// ReadFile reads a spreadsheet file of any supported type.
func ReadFile(path string) (*dataset.FileRows, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadWorkbook(path)
	case ".csv":
		return ReadCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(path))
	}
}

// ReadWorkbook reads the first sheet of an xlsx workbook. The first row is
// the header; every following row becomes a record tagged with the file's
// base name and its 1-based, header-adjusted position.
func ReadWorkbook(path string) (*dataset.FileRows, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSheets, path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheets[0], path, err)
	}

	return buildFileRows(filepath.Base(path), rows)
}

// ReadCSV reads a delimited text file with the same header/record contract
// as ReadWorkbook.
func ReadCSV(path string) (*dataset.FileRows, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return buildFileRows(filepath.Base(path), records)
}

func buildFileRows(source string, rows [][]string) (*dataset.FileRows, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoHeader, source)
	}

	header := make([]string, len(rows[0]))
	empty := true

	for i, cell := range rows[0] {
		header[i] = strutil.CleanCell(cell)
		if header[i] != "" {
			empty = false
		}
	}

	if empty {
		return nil, fmt.Errorf("%w: %s", ErrNoHeader, source)
	}

	fr := &dataset.FileRows{Source: source, Columns: header}

	for i, raw := range rows[1:] {
		cells := make([]dataset.Value, len(header))

		for j := range header {
			if j >= len(raw) {
				break
			}

			if cell := strutil.CleanCell(raw[j]); cell != "" {
				cells[j] = dataset.StringValue(cell)
			}
		}

		fr.Rows = append(fr.Rows, dataset.Row{
			SourceFile:  source,
			OriginalRow: i + 2,
			Cells:       cells,
		})
	}

	return fr, nil
}
