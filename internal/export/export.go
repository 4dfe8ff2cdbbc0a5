// Package export writes the consolidated, validated table to a CSV snapshot.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"serumqc/internal/dataset"
)

// dateLayout is the calendar-date form used for normalized dates in the
// exported file.
const dateLayout = "2006-01-02"

// Result describes a completed export.
type Result struct {
	Path     string        `json:"path"`
	Rows     int           `json:"rows"`
	Bytes    int64         `json:"bytes"`
	Duration time.Duration `json:"duration"`
}

// String returns a one-line summary of the result.
func (r *Result) String() string {
	return fmt.Sprintf("%d rows (%d bytes) -> %s in %s", r.Rows, r.Bytes, r.Path, r.Duration.Round(time.Millisecond))
}

// WriteCSV writes the table to path, one record per row, with the two
// provenance columns appended after the data columns. Dates render as
// calendar dates, booleans as true/false, missing values as empty fields.
func WriteCSV(t *dataset.Table, path string) (*Result, error) {
	start := time.Now()

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create export file %s: %w", path, err)
	}

	buffered := bufio.NewWriterSize(f, 1<<20)
	counter := &countingWriter{writer: buffered}
	csvWriter := csv.NewWriter(counter)

	header := make([]string, 0, len(t.Columns)+2)
	header = append(header, t.Columns...)
	header = append(header, dataset.SourceFileColumn, dataset.OriginalRowColumn)

	if err := csvWriter.Write(header); err != nil {
		f.Close()

		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	record := make([]string, len(header))

	for i := range t.Rows {
		row := &t.Rows[i]

		for j := range t.Columns {
			record[j] = formatValue(row.Cells[j])
		}

		record[len(t.Columns)] = row.SourceFile
		record[len(t.Columns)+1] = strconv.Itoa(row.OriginalRow)

		if err := csvWriter.Write(record); err != nil {
			f.Close()

			return nil, fmt.Errorf("failed to write export row %d: %w", i, err)
		}
	}

	csvWriter.Flush()

	if err := csvWriter.Error(); err != nil {
		f.Close()

		return nil, fmt.Errorf("failed to flush export rows: %w", err)
	}

	if err := buffered.Flush(); err != nil {
		f.Close()

		return nil, fmt.Errorf("failed to flush export file: %w", err)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close export file: %w", err)
	}

	return &Result{
		Path:     path,
		Rows:     t.RowCount(),
		Bytes:    counter.count,
		Duration: time.Since(start),
	}, nil
}

func formatValue(v dataset.Value) string {
	switch v.Kind() {
	case dataset.KindDate:
		d, _ := v.Date()

		return d.Format(dateLayout)
	case dataset.KindBool:
		b, _ := v.Bool()

		return strconv.FormatBool(b)
	case dataset.KindString:
		return v.Raw()
	default:
		return ""
	}
}

type countingWriter struct {
	writer *bufio.Writer
	count  int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.writer.Write(p)
	c.count += int64(n)

	return n, err
}
