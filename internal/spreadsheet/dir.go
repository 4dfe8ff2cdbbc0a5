package spreadsheet

import (
	"fmt"
	"os"
	"path/filepath"

	"serumqc/internal/dataset"
)

// SkippedFile records a spreadsheet that could not be read.
type SkippedFile struct {
	Path string
	Err  error
}

// ReadDir reads every spreadsheet at the top level of dir, in name order.
// A file that cannot be read is skipped and reported alongside the readable
// ones; an unreadable directory is an error.
func ReadDir(dir string) ([]*dataset.FileRows, []SkippedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read extraction directory %s: %w", dir, err)
	}

	var (
		files   []*dataset.FileRows
		skipped []SkippedFile
	)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if !IsSpreadsheet(path) {
			continue
		}

		rows, err := ReadFile(path)
		if err != nil {
			skipped = append(skipped, SkippedFile{Path: path, Err: err})

			continue
		}

		files = append(files, rows)
	}

	return files, skipped, nil
}
