package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"serumqc/pkg/strutil"
)

// Exported column names for row provenance.
const (
	SourceFileColumn  = "source_file"
	OriginalRowColumn = "original_row"
)

// Merged-file errors.
var (
	ErrMissingProvenance = errors.New("merged file lacks source_file/original_row columns")
	ErrBadOriginalRow    = errors.New("original_row is not a valid integer")
)

// ReadRaw loads a previously exported merged table from CSV, restoring the
// provenance fields from their columns. All data cells come back as strings
// (empty cells as null), ready for the validation pipeline.
func ReadRaw(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open merged file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse merged file: %w", err)
	}

	if len(records) == 0 {
		return nil, ErrNoRows
	}

	header := records[0]
	srcIdx, rowIdx := -1, -1

	t := &Table{index: make(map[string]int)}
	fieldToCol := make([]int, len(header))

	for i, name := range header {
		name = strutil.CleanCell(name)
		fieldToCol[i] = -1

		switch name {
		case SourceFileColumn:
			srcIdx = i
		case OriginalRowColumn:
			rowIdx = i
		default:
			t.addColumn(name)
			fieldToCol[i] = t.index[name]
		}
	}

	if srcIdx < 0 || rowIdx < 0 {
		return nil, ErrMissingProvenance
	}

	for line, record := range records[1:] {
		row := Row{Cells: make([]Value, len(t.Columns))}

		for i, field := range record {
			if i >= len(header) {
				break
			}

			switch i {
			case srcIdx:
				row.SourceFile = strutil.CleanCell(field)
			case rowIdx:
				original, convErr := strconv.Atoi(strutil.CleanCell(field))
				if convErr != nil {
					return nil, fmt.Errorf("%w: line %d: %q", ErrBadOriginalRow, line+2, field)
				}

				row.OriginalRow = original
			default:
				if cell := strutil.CleanCell(field); cell != "" {
					row.Cells[fieldToCol[i]] = StringValue(cell)
				}
			}
		}

		t.Rows = append(t.Rows, row)
	}

	if len(t.Rows) == 0 {
		return nil, ErrNoRows
	}

	return t, nil
}
