package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "merged.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp CSV: %v", err)
	}

	return path
}

func TestReadRaw_Valid(t *testing.T) {
	path := writeTempCSV(t, `Barcode_ID,Date_Collected,source_file,original_row
AB123456,02/14/2020,week1.xlsx,2
CD789012,,week2.xlsx,5
`)

	table, err := ReadRaw(path)
	if err != nil {
		t.Fatalf("ReadRaw failed: %v", err)
	}

	if table.RowCount() != 2 {
		t.Fatalf("Expected 2 rows, got %d", table.RowCount())
	}

	// Provenance columns are restored to row fields, not kept as data
	if table.ColumnCount() != 2 {
		t.Fatalf("Expected 2 data columns, got %d", table.ColumnCount())
	}

	if table.Rows[0].SourceFile != "week1.xlsx" {
		t.Errorf("Expected source 'week1.xlsx', got '%s'", table.Rows[0].SourceFile)
	}

	if table.Rows[1].OriginalRow != 5 {
		t.Errorf("Expected original row 5, got %d", table.Rows[1].OriginalRow)
	}

	dateIdx, ok := table.ColumnIndex("Date_Collected")
	if !ok {
		t.Fatal("Expected Date_Collected column")
	}

	if got := table.Cell(0, dateIdx).Raw(); got != "02/14/2020" {
		t.Errorf("Expected raw date string '02/14/2020', got '%s'", got)
	}

	if !table.Cell(1, dateIdx).IsNull() {
		t.Error("Expected empty field to come back as null")
	}
}

func TestReadRaw_MissingProvenance(t *testing.T) {
	path := writeTempCSV(t, `Barcode_ID,Date_Collected
AB123456,02/14/2020
`)

	_, err := ReadRaw(path)
	if !errors.Is(err, ErrMissingProvenance) {
		t.Fatalf("Expected ErrMissingProvenance, got %v", err)
	}
}

func TestReadRaw_BadOriginalRow(t *testing.T) {
	path := writeTempCSV(t, `Barcode_ID,source_file,original_row
AB123456,week1.xlsx,two
`)

	_, err := ReadRaw(path)
	if !errors.Is(err, ErrBadOriginalRow) {
		t.Fatalf("Expected ErrBadOriginalRow, got %v", err)
	}
}

func TestReadRaw_HeaderOnly(t *testing.T) {
	path := writeTempCSV(t, `Barcode_ID,source_file,original_row
`)

	_, err := ReadRaw(path)
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("Expected ErrNoRows, got %v", err)
	}
}

func TestReadRaw_FileNotFound(t *testing.T) {
	_, err := ReadRaw("/nonexistent/merged.csv")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}
