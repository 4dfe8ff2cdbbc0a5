// Package diaglog maintains the append-only, human-readable log of invalid
// rows. Entries are written the moment a check flags a row and are never
// rewritten, sorted, or deduplicated: the log is an audit trail.
package diaglog

import (
	"fmt"
	"os"
	"strings"

	"serumqc/internal/dataset"
)

// Writer appends diagnostic entries to a plain-text log file. One entry is
// one block:
//
//	File: '<source_file>', MasterIndex: <table_index>, SourceRowIndex: <original_row>
//	 - <issue text>
//
// with a trailing blank line separating blocks.
type Writer struct {
	f       *os.File
	path    string
	entries int
}

// Open opens the log file in append mode, creating it if absent.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open diagnostics log %s: %w", path, err)
	}

	return &Writer{f: f, path: path}, nil
}

// Record appends one block for a flagged row. The write goes straight to the
// file; nothing is buffered. Rows with no issues produce no entry.
func (w *Writer) Record(row *dataset.Row, index int, issues []string) error {
	if len(issues) == 0 {
		return nil
	}

	var b strings.Builder

	fmt.Fprintf(&b, "File: '%s', MasterIndex: %d, SourceRowIndex: %d\n", row.SourceFile, index, row.OriginalRow)

	for _, issue := range issues {
		fmt.Fprintf(&b, " - %s\n", issue)
	}

	b.WriteString("\n")

	if _, err := w.f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to append to diagnostics log: %w", err)
	}

	w.entries++

	return nil
}

// Entries returns the number of blocks written through this writer.
func (w *Writer) Entries() int {
	return w.entries
}

// Path returns the log file location.
func (w *Writer) Path() string {
	return w.path
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	return w.f.Close()
}
